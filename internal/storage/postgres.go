package storage

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/albapepper/cricstats/internal/db"
)

// PostgresStore keeps objects in the stat_blobs table through the pool's
// prepared statements.
type PostgresStore struct {
	pool *db.Pool
}

// NewPostgresStore wraps an open pool. Closing the store closes the pool.
func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, db.StmtBlobGet, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get", key, err)
	}
	return body, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, obj Object) error {
	if _, err := s.pool.Exec(ctx, db.StmtBlobPut, key, obj.Body, obj.ContentType, obj.Checksum); err != nil {
		return storageErr("put", key, err)
	}
	return nil
}

func (s *PostgresStore) Checksum(ctx context.Context, key string) (string, error) {
	var sum string
	err := s.pool.QueryRow(ctx, db.StmtBlobChecksum, key).Scan(&sum)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", storageErr("checksum", key, err)
	}
	return sum, nil
}

func (s *PostgresStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.pool.Query(ctx, db.StmtBlobList, prefix)
	if err != nil {
		return nil, storageErr("list", prefix, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storageErr("list", prefix, err)
	}
	return keys, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.HealthCheck(ctx); err != nil {
		return storageErr("ping", "postgres", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
