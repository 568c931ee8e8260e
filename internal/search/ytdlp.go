package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Track is the subset of yt-dlp metadata the bot cares about.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Duration   int    `json:"duration"`
	WebpageURL string `json:"webpage_url"`
	StreamURL  string `json:"stream_url"`
	Thumbnail  string `json:"thumbnail"`
}

var youtubeRE = regexp.MustCompile(
	`(?i)^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|.+\?v=)?([^&=%?]{11})`,
)

// IsYouTubeURL reports whether s looks like a YouTube video URL.
func IsYouTubeURL(s string) bool {
	return youtubeRE.MatchString(s)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// YTDLP wraps the external yt-dlp binary.
type YTDLP struct {
	path  string
	limit int
}

func New(path string, limit int) *YTDLP {
	if limit <= 0 {
		limit = 5
	}
	return &YTDLP{path: path, limit: limit}
}

// ytdlpEntry mirrors the fields of yt-dlp's --dump-json output we decode.
type ytdlpEntry struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Uploader   string       `json:"uploader"`
	Channel    string       `json:"channel"`
	Duration   float64      `json:"duration"`
	URL        string       `json:"url"`
	WebpageURL string       `json:"webpage_url"`
	Thumbnail  string       `json:"thumbnail"`
	Entries    []ytdlpEntry `json:"entries"`
}

func (e ytdlpEntry) track() Track {
	artist := e.Artist()
	return Track{
		ID:         e.ID,
		Title:      e.Title,
		Artist:     artist,
		Duration:   int(e.Duration),
		WebpageURL: e.WebpageURL,
		StreamURL:  e.URL,
		Thumbnail:  e.Thumbnail,
	}
}

func (e ytdlpEntry) Artist() string {
	if e.Channel != "" {
		return e.Channel
	}
	if e.Uploader != "" {
		return e.Uploader
	}
	return "Unknown Artist"
}

// Search returns up to the configured limit of matches for a free-text query.
func (y *YTDLP) Search(ctx context.Context, query string) ([]Track, error) {
	output, err := y.run(ctx,
		fmt.Sprintf("ytsearch%d:%s", y.limit, query),
		"--dump-json",
		"--no-warnings",
	)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp search: %w", err)
	}

	var tracks []Track
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}
		var entry ytdlpEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			logrus.WithError(err).Debug("search: skipping unparsable result line")
			continue
		}
		tracks = append(tracks, entry.track())
	}
	return tracks, nil
}

// ExtractInfo resolves a query or URL to a single track. Free-text queries go
// through ytsearch1; playlist and search containers collapse to their first
// entry, matching how the bot treats pasted playlist links.
func (y *YTDLP) ExtractInfo(ctx context.Context, query string) (*Track, error) {
	target := query
	args := []string{"-J", "--no-warnings"}
	if !isURL(query) {
		target = "ytsearch1:" + query
	} else if IsYouTubeURL(query) {
		// A watch URL with a list= parameter would otherwise expand the
		// whole mix.
		args = append(args, "--no-playlist")
	}

	output, err := y.run(ctx, append([]string{target}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp extract: %w", err)
	}

	var entry ytdlpEntry
	if err := json.Unmarshal(output, &entry); err != nil {
		return nil, fmt.Errorf("yt-dlp extract: parse output: %w", err)
	}
	for len(entry.Entries) > 0 {
		entry = entry.Entries[0]
	}
	if entry.Title == "" && entry.WebpageURL == "" {
		return nil, fmt.Errorf("no results for %q", query)
	}

	t := entry.track()
	return &t, nil
}

// StreamURL returns a direct media URL suitable for ffmpeg input.
func (y *YTDLP) StreamURL(ctx context.Context, url string, video bool) (string, error) {
	format := "bestaudio/best"
	if video {
		format = "best"
	}
	output, err := y.run(ctx, "-g", "-f", format, "--no-warnings", url)
	if err != nil {
		return "", fmt.Errorf("yt-dlp stream url: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return "", fmt.Errorf("yt-dlp stream url: empty output")
	}
	return lines[0], nil
}

// DownloadAudio fetches the track as mp3 into dir and returns the file path.
func (y *YTDLP) DownloadAudio(ctx context.Context, t Track, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, t.ID+".mp3")
	_, err := y.run(ctx,
		"-x",
		"--audio-format", "mp3",
		"--no-playlist",
		"--output", out,
		t.WebpageURL,
	)
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}
	return out, nil
}
