package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrEnvCreated is returned when a fresh .env template was written. The bot
// must not start until the operator fills in real credentials.
var ErrEnvCreated = errors.New(".env file created, edit it before starting the bot")

const envTemplate = `# Alice Music Bot configuration
# Telegram credentials
BOT_TOKEN=YOUR_BOT_TOKEN
ASSISTANT_TOKEN=YOUR_ASSISTANT_TOKEN
API_ID=0
API_HASH=
OWNER_ID=0

# MySQL
DB_HOST=localhost
DB_PORT=3306
DB_USER=root
DB_PASSWORD=
DB_NAME=alice_music_bot

# Runtime
LOG_LEVEL=INFO
YTDLP_PATH=yt-dlp
FFMPEG_PATH=ffmpeg
DOWNLOAD_DIR=downloads
SEARCH_LIMIT=5
REDIS_URL=
`

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type Limits struct {
	MaxPlaylists     int `yaml:"max_playlists"`
	MaxPlaylistSongs int `yaml:"max_playlist_songs"`
	MaxQueue         int `yaml:"max_queue"`
}

type Config struct {
	BotToken         string
	AssistantSession string
	APIID            int
	APIHash          string
	OwnerID          int64

	DB DBConfig

	LogLevel    string
	YtDlpPath   string
	FFmpegPath  string
	DownloadDir string
	SearchLimit int
	RedisURL    string

	Limits Limits
}

// EnsureEnvFile writes a template .env at path when none exists and BOT_TOKEN
// is not already provided through the environment. The returned ErrEnvCreated
// tells the caller to abort startup.
func EnsureEnvFile(path string) error {
	if os.Getenv("BOT_TOKEN") != "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(envTemplate), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return ErrEnvCreated
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		YtDlpPath:   getEnv("YTDLP_PATH", "yt-dlp"),
		FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
		DownloadDir: getEnv("DOWNLOAD_DIR", "downloads"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Limits: Limits{
			MaxPlaylists:     5,
			MaxPlaylistSongs: 10,
			MaxQueue:         10,
		},
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" || cfg.BotToken == "YOUR_BOT_TOKEN" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}
	cfg.AssistantSession = os.Getenv("ASSISTANT_TOKEN")
	if cfg.AssistantSession == "" || cfg.AssistantSession == "YOUR_ASSISTANT_TOKEN" {
		return nil, fmt.Errorf("ASSISTANT_TOKEN is not set")
	}
	cfg.APIHash = os.Getenv("API_HASH")
	if cfg.APIHash == "" {
		return nil, fmt.Errorf("API_HASH is not set")
	}

	var err error
	if cfg.APIID, err = intEnv("API_ID", 0); err != nil {
		return nil, err
	}
	if cfg.APIID == 0 {
		return nil, fmt.Errorf("API_ID is not set")
	}

	owner, err := int64Env("OWNER_ID", 0)
	if err != nil {
		return nil, err
	}
	if owner == 0 {
		return nil, fmt.Errorf("OWNER_ID is not set")
	}
	cfg.OwnerID = owner

	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = os.Getenv("DB_PASSWORD")
	cfg.DB.Name = getEnv("DB_NAME", "alice_music_bot")
	if cfg.DB.Port, err = intEnv("DB_PORT", 3306); err != nil {
		return nil, err
	}

	if cfg.SearchLimit, err = intEnv("SEARCH_LIMIT", 5); err != nil {
		return nil, err
	}

	if err := cfg.applyFile("alice.yml"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s invalid: %w", key, err)
	}
	return n, nil
}

func int64Env(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s invalid: %w", key, err)
	}
	return n, nil
}
