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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 80, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:80", cfg.HTTP.Addr())
	assert.False(t, cfg.DevMode)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "sqlite", string(cfg.Database.Type))
	assert.Equal(t, 30*24*time.Hour, cfg.Sessions.TTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int64(2<<20), cfg.Uploads.MaxAvatarBytes)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_HTTP_HOST", "127.0.0.1")
	t.Setenv("APP_HTTP_PORT", "9000")
	t.Setenv("APP_LOGGING_LEVEL", "DEBUG")
	t.Setenv("APP_DATABASE_TYPE", "postgres")
	t.Setenv("APP_DATABASE_POSTGRES_HOST", "db.internal")
	t.Setenv("APP_DATABASE_POSTGRES_DATABASE", "soumetsu")
	t.Setenv("APP_DATABASE_POSTGRES_USER", "soumetsu")
	t.Setenv("APP_RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr())
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "postgres", string(cfg.Database.Type))
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadDevModeTruthy(t *testing.T) {
	for _, value := range []string{"true", "TRUE", "1", "t"} {
		t.Setenv("APP_DEV_MODE", value)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.DevMode, "APP_DEV_MODE=%s", value)
	}

	t.Setenv("APP_DEV_MODE", "false")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.DevMode)
}

func TestLoadDevModeDisablesRateLimit(t *testing.T) {
	t.Setenv("APP_DEV_MODE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  host: 10.0.0.5
  port: 8080
logging:
  level: WARN
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "WARN", cfg.Logging.Level)

	// Environment still wins over the file.
	t.Setenv("APP_HTTP_PORT", "9999")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTP.Port)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("APP_HTTP_PORT", "70000")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsCaptchaWithoutSecret(t *testing.T) {
	t.Setenv("APP_HCAPTCHA_ENABLED", "true")
	_, err := Load("")
	assert.Error(t, err)
}
