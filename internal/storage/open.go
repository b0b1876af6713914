package storage

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/cricstats/internal/config"
	"github.com/albapepper/cricstats/internal/db"
)

// Open builds the store selected by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendGCS:
		s, err := NewGCSStore(ctx, GCSConfig{
			Bucket:          cfg.GCSBucket,
			ProjectID:       cfg.GCSProjectID,
			CredentialsFile: cfg.GCSCredentials,
			Endpoint:        cfg.GCSEndpoint,
		}, logger)
		if err != nil {
			return nil, err
		}
		if cfg.GCSCreate {
			if err := s.EnsureBucket(ctx, cfg.GCSProjectID); err != nil {
				s.Close()
				return nil, err
			}
		}
		logger.Info("Storage ready", "backend", cfg.StorageBackend, "bucket", cfg.GCSBucket)
		return s, nil

	case config.BackendPostgres:
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, errors.Wrap(err, "database")
		}
		logger.Info("Storage ready", "backend", cfg.StorageBackend)
		return NewPostgresStore(pool), nil

	case config.BackendSQLite:
		s, err := NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("Storage ready", "backend", cfg.StorageBackend, "path", cfg.SQLitePath)
		return s, nil

	case config.BackendMemory:
		logger.Warn("Using in-memory storage, nothing will be persisted")
		return NewMemoryStore(), nil
	}
	return nil, errors.Newf("unknown storage backend %q", cfg.StorageBackend)
}
