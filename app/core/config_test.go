package core

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupConfigFromEnv(t *testing.T) {
	t.Setenv("COURSE_CONSOLE_API_BASE_URL", "http://backend:9000")
	t.Setenv("COURSE_CONSOLE_API_TOKEN", "secret")
	t.Setenv("COURSE_CONSOLE_POLL_INTERVAL_MS", "500")
	t.Setenv("COURSE_CONSOLE_STORE_DRIVER", "redis")
	t.Setenv("COURSE_CONSOLE_REDIS_DB", "2")

	cfg := LoadBaseConfigFromENV()

	assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	assert.Equal(t, "Bearer secret", cfg.API.Headers["Authorization"])
	assert.Equal(t, 500, cfg.Poll.IntervalMS)
	assert.Equal(t, STORE_DRIVER_REDIS, cfg.Store.Driver)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, DEFAULT_API_TIMEOUT, cfg.API.Timeout)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
lang = "zh-CN"

[api]
base_url = "http://127.0.0.1:8000"
rate_limit = 5.0
rate_burst = 2

[log]
level = "debug"

[upload]
max_size_mb = 20
allowed_types = [".md"]

[store]
driver = "redis"
[store.redis]
addr = "localhost:6379"
`), 0o644))

	cfg := MustLoadBaseConfig(path)
	assert.Equal(t, "zh-CN", cfg.Lang)
	assert.Equal(t, 5.0, cfg.API.RateLimit)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.EqualValues(t, 20<<20, cfg.Upload.MaxSizeBytes())
	assert.Equal(t, []string{".md"}, cfg.Upload.AllowedTypes)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "course-console", cfg.Store.Redis.KeyPrefix)
	assert.Equal(t, DEFAULT_POLL_INTERVAL_MS, cfg.Poll.IntervalMS)
	assert.Equal(t, DEFAULT_SERVE_ADDR, cfg.Serve.Addr)
}

func TestDefaults(t *testing.T) {
	var cfg CoreConfig
	cfg.ApplyDefaults()

	assert.Equal(t, DEFAULT_API_BASE_URL, cfg.API.BaseURL)
	assert.EqualValues(t, 10<<20, cfg.Upload.MaxSizeBytes())
	assert.Equal(t, []string{".md", ".txt"}, cfg.Upload.AllowedTypes)
	assert.Equal(t, STORE_DRIVER_MEMORY, cfg.Store.Driver)
	assert.Equal(t, slog.LevelWarn, cfg.Log.SlogLevel())
	assert.Equal(t, "2s", cfg.Poll.Interval().String())
}

func TestMustLoadBaseConfigPanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadBaseConfig(filepath.Join(t.TempDir(), "missing.toml"))
	})
}
