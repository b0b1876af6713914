// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Storage backends
// --------------------------------------------------------------------------

const (
	BackendGCS      = "gcs"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// BlobsTable is the table the database-backed stores keep CSV objects in.
const BlobsTable = "stat_blobs"

// --------------------------------------------------------------------------
// Config is populated from environment variables.
// --------------------------------------------------------------------------

type Config struct {
	Environment string // development, staging, production
	LogLevel    slog.Level

	// Storage
	StorageBackend string
	GCSBucket      string
	GCSProjectID   string
	GCSCredentials string
	GCSEndpoint    string
	GCSCreate      bool
	SQLitePath     string

	// Database (postgres backend)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Scraper
	SearchBaseURL     string
	StatsBaseURL      string
	ProfileBaseURL    string
	ScrapeRPM         int
	ScrapeTimeout     time.Duration
	ScrapeConcurrency int
	UserAgent         string

	// API server
	APIHost string
	APIPort int

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envLevel("LOG_LEVEL", slog.LevelInfo),

		StorageBackend: strings.ToLower(envOr("STORAGE_BACKEND", BackendGCS)),
		GCSBucket:      envOr("GCS_BUCKET", "cricketer-stats"),
		GCSProjectID:   envOr("GCS_PROJECT_ID", envOr("GOOGLE_CLOUD_PROJECT", "")),
		GCSCredentials: envOr("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GCSEndpoint:    envOr("GCS_ENDPOINT", ""),
		GCSCreate:      envBool("GCS_CREATE_BUCKET", true),
		SQLitePath:     envOr("SQLITE_PATH", "cricstats.db"),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		SearchBaseURL:     envOr("CRICINFO_SEARCH_URL", "https://search.espncricinfo.com"),
		StatsBaseURL:      envOr("CRICINFO_STATS_URL", "https://stats.espncricinfo.com"),
		ProfileBaseURL:    envOr("CRICINFO_PROFILE_URL", "https://www.espncricinfo.com"),
		ScrapeRPM:         envInt("SCRAPE_REQUESTS_PER_MINUTE", 30),
		ScrapeTimeout:     envDuration("SCRAPE_TIMEOUT", 30*time.Second),
		ScrapeConcurrency: envInt("SCRAPE_CONCURRENCY", 2),
		UserAgent: envOr("SCRAPE_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),

		APIHost: envOr("API_HOST", "0.0.0.0"),
		APIPort: envInt("API_PORT", envInt("PORT", 8000)),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     envDuration("CACHE_TTL", 10*time.Minute),
	}

	switch cfg.StorageBackend {
	case BackendGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET must be set for the gcs backend")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set for the postgres backend")
		}
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set for the sqlite backend")
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want gcs, postgres, sqlite or memory)", cfg.StorageBackend)
	}

	if cfg.ScrapeRPM < 1 {
		return nil, fmt.Errorf("SCRAPE_REQUESTS_PER_MINUTE must be positive")
	}
	if cfg.ScrapeConcurrency < 1 {
		cfg.ScrapeConcurrency = 1
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
