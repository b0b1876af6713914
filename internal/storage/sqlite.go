package storage

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLiteStore keeps objects in a local SQLite file. Useful for running the
// pipeline on a laptop without cloud credentials.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the
// blob table schema. Use ":memory:" for a throwaway store.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply sqlite schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM stat_blobs WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get", key, err)
	}
	return body, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, obj Object) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stat_blobs (key, body, content_type, checksum, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			body = excluded.body,
			content_type = excluded.content_type,
			checksum = excluded.checksum,
			updated_at = CURRENT_TIMESTAMP`,
		key, obj.Body, obj.ContentType, obj.Checksum)
	if err != nil {
		return storageErr("put", key, err)
	}
	return nil
}

func (s *SQLiteStore) Checksum(ctx context.Context, key string) (string, error) {
	var sum string
	err := s.db.QueryRowContext(ctx, `SELECT checksum FROM stat_blobs WHERE key = ?`, key).Scan(&sum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", storageErr("checksum", key, err)
	}
	return sum, nil
}

func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM stat_blobs WHERE substr(key, 1, length(?1)) = ?1 ORDER BY key`, prefix)
	if err != nil {
		return nil, storageErr("list", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, storageErr("list", prefix, err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", prefix, err)
	}
	return keys, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageErr("ping", "sqlite", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
