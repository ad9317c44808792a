package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./dancefloor.db", cfg.DatabasePath)
	assert.Equal(t, 24*time.Hour, cfg.TokenDuration)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 64, cfg.HubBufferSize)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Nil(t, cfg.TrustedProxies)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_DURATION", "2h")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PUBLIC_BASE_URL", "https://dance.example/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenDuration)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://dance.example", cfg.PublicBaseURL)
}

func TestLoadInvalidNumbersKeepDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("TOKEN_DURATION", "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 24*time.Hour, cfg.TokenDuration)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "7000"
database_path: /var/lib/dancefloor.db
token_duration: 12h
hub_buffer_size: 16
trusted_proxies:
  - 10.0.0.0/8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	// env still wins over the file
	t.Setenv("HUB_BUFFER_SIZE", "32")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "/var/lib/dancefloor.db", cfg.DatabasePath)
	assert.Equal(t, 12*time.Hour, cfg.TokenDuration)
	assert.Equal(t, 32, cfg.HubBufferSize)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
