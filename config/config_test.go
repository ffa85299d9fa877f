package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ID", "12345")
	t.Setenv("APP_HASH", "hash")
	t.Setenv("BOT_TOKEN", "1:token")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 12345, cfg.AppID)
	assert.Equal(t, "./session", cfg.SessionDir)
	assert.Equal(t, DefaultMaxConcurrentFetches, cfg.MaxConcurrentFetches)
	assert.Equal(t, "yt-dlp", cfg.Fetch.YtdlpBin)
	assert.Equal(t, DefaultHoldingDir, cfg.Fetch.HoldingDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigCookieVariables(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("YDL_COOKIES_IG", "/tmp/ig.txt")
	t.Setenv("YDL_COOKIES", "/tmp/all.txt")
	t.Setenv("YDL_UA_IG", "custom-ua")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.Cookies.Instagram)
	assert.Equal(t, "/tmp/ig.txt", cfg.Cookies.InstagramAlias)
	assert.Equal(t, "/tmp/all.txt", cfg.Cookies.Global)
	assert.Equal(t, "custom-ua", cfg.Cookies.InstagramUA)
}

func TestLoadConfigMissingToken(t *testing.T) {
	t.Setenv("APP_ID", "1")
	t.Setenv("APP_HASH", "hash")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("CONFIG_FILE", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BotToken")
}

func TestLoadConfigFromFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("fetch:\n  holding_dir: /srv/hold\nmax_concurrent_fetches: 2\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/hold", cfg.Fetch.HoldingDir)
	assert.Equal(t, 2, cfg.MaxConcurrentFetches)
}

func TestIsOwner(t *testing.T) {
	cfg := &Config{OwnerID: 42}
	assert.True(t, cfg.IsOwner(42))
	assert.False(t, cfg.IsOwner(7))
	assert.False(t, (&Config{}).IsOwner(0))
}
