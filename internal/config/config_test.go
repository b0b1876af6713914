package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("GCS_BUCKET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendGCS, cfg.StorageBackend)
	assert.Equal(t, "cricketer-stats", cfg.GCSBucket)
	assert.Equal(t, 30, cfg.ScrapeRPM)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/stats.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCRAPE_TIMEOUT", "5s")
	t.Setenv("SCRAPE_CONCURRENCY", "0")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/stats.db", cfg.SQLitePath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ScrapeTimeout)
	assert.Equal(t, 1, cfg.ScrapeConcurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}
