package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ASSISTANT_TOKEN", "1BVtsession")
	t.Setenv("API_ID", "12345")
	t.Setenv("API_HASH", "deadbeef")
	t.Setenv("OWNER_ID", "777")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("SEARCH_LIMIT", "")
	t.Setenv("LOG_LEVEL", "")
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestEnsureEnvFileCreatesTemplate(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	err := EnsureEnvFile(path)
	require.ErrorIs(t, err, ErrEnvCreated)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, key := range []string{
		"BOT_TOKEN", "ASSISTANT_TOKEN", "API_ID", "API_HASH", "OWNER_ID",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "LOG_LEVEL",
	} {
		assert.True(t, strings.Contains(string(data), key+"="), "template missing %s", key)
	}
}

func TestEnsureEnvFileExisting(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOT_TOKEN=x\n"), 0o600))

	assert.NoError(t, EnsureEnvFile(path))
}

func TestEnsureEnvFileSkipsWhenEnvSet(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	require.NoError(t, EnsureEnvFile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), ".env must not be written when BOT_TOKEN is already set")
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)
	setValidEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, 12345, cfg.APIID)
	assert.Equal(t, int64(777), cfg.OwnerID)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, "alice_music_bot", cfg.DB.Name)
	assert.Equal(t, 5, cfg.SearchLimit)
	assert.Equal(t, 5, cfg.Limits.MaxPlaylists)
	assert.Equal(t, 10, cfg.Limits.MaxPlaylistSongs)
	assert.Equal(t, 10, cfg.Limits.MaxQueue)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bot token empty", "BOT_TOKEN", ""},
		{"bot token placeholder", "BOT_TOKEN", "YOUR_BOT_TOKEN"},
		{"assistant empty", "ASSISTANT_TOKEN", ""},
		{"assistant placeholder", "ASSISTANT_TOKEN", "YOUR_ASSISTANT_TOKEN"},
		{"api hash empty", "API_HASH", ""},
		{"api id zero", "API_ID", "0"},
		{"owner zero", "OWNER_ID", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			setValidEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestApplyFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alice.yml")
	yml := `
search_limit: 3
ytdlp_path: /opt/yt-dlp
limits:
  max_queue: 20
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg := &Config{
		SearchLimit: 5,
		YtDlpPath:   "yt-dlp",
		FFmpegPath:  "ffmpeg",
		Limits:      Limits{MaxPlaylists: 5, MaxPlaylistSongs: 10, MaxQueue: 10},
	}
	require.NoError(t, cfg.applyFile(path))

	assert.Equal(t, 3, cfg.SearchLimit)
	assert.Equal(t, "/opt/yt-dlp", cfg.YtDlpPath)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 20, cfg.Limits.MaxQueue)
	assert.Equal(t, 5, cfg.Limits.MaxPlaylists)
}

func TestApplyFileMissing(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.applyFile(filepath.Join(t.TempDir(), "absent.yml")))
}

func TestApplyFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alice.yml")
	require.NoError(t, os.WriteFile(path, []byte(":\t not yaml ["), 0o600))

	cfg := &Config{}
	assert.Error(t, cfg.applyFile(path))
}
