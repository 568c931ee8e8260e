package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileOverrides holds the optional alice.yml tunables. Only set values
// override the environment-derived config.
type fileOverrides struct {
	SearchLimit *int    `yaml:"search_limit"`
	DownloadDir *string `yaml:"download_dir"`
	YtDlpPath   *string `yaml:"ytdlp_path"`
	FFmpegPath  *string `yaml:"ffmpeg_path"`
	Limits      *Limits `yaml:"limits"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var ov fileOverrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if ov.SearchLimit != nil {
		c.SearchLimit = *ov.SearchLimit
	}
	if ov.DownloadDir != nil {
		c.DownloadDir = *ov.DownloadDir
	}
	if ov.YtDlpPath != nil {
		c.YtDlpPath = *ov.YtDlpPath
	}
	if ov.FFmpegPath != nil {
		c.FFmpegPath = *ov.FFmpegPath
	}
	if ov.Limits != nil {
		if ov.Limits.MaxPlaylists > 0 {
			c.Limits.MaxPlaylists = ov.Limits.MaxPlaylists
		}
		if ov.Limits.MaxPlaylistSongs > 0 {
			c.Limits.MaxPlaylistSongs = ov.Limits.MaxPlaylistSongs
		}
		if ov.Limits.MaxQueue > 0 {
			c.Limits.MaxQueue = ov.Limits.MaxQueue
		}
	}
	return nil
}
