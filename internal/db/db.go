// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/cricstats/internal/config"
)

// Prepared statement names.
const (
	StmtHealthCheck  = "health_check"
	StmtBlobGet      = "blob_get"
	StmtBlobPut      = "blob_put"
	StmtBlobChecksum = "blob_checksum"
	StmtBlobList     = "blob_list"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, StmtHealthCheck).Scan(&n)
}

// registerPreparedStatements registers every statement the blob store uses.
// Statements reference the table created by the embedded migrations, so
// `cricstats-ingest migrate up` must have run before the first connection.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	for name, sql := range statements() {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

// statements maps prepared statement names to their SQL. List compares the
// key prefix literally; slugs contain '_', which LIKE would treat as a wildcard.
func statements() map[string]string {
	return map[string]string{
		StmtHealthCheck: "SELECT 1",

		StmtBlobGet:      "SELECT body FROM " + config.BlobsTable + " WHERE key = $1",
		StmtBlobChecksum: "SELECT checksum FROM " + config.BlobsTable + " WHERE key = $1",
		StmtBlobList:     "SELECT key FROM " + config.BlobsTable + " WHERE left(key, length($1::text)) = $1::text ORDER BY key",
		StmtBlobPut: `INSERT INTO ` + config.BlobsTable + ` (key, body, content_type, checksum, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (key) DO UPDATE SET
				body = EXCLUDED.body,
				content_type = EXCLUDED.content_type,
				checksum = EXCLUDED.checksum,
				updated_at = NOW()`,
	}
}
