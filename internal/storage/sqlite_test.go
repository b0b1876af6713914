package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blobs.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Ping(ctx))

	_, err = s.Get(ctx, "master/tf/batting_stats.csv")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Checksum(ctx, "master/tf/batting_stats.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "master/tf/batting_stats.csv", Object{Body: []byte("a\n1\n"), ContentType: ContentTypeCSV, Checksum: "c1"}))
	require.NoError(t, s.Put(ctx, "master/tf/batting_stats.csv", Object{Body: []byte("a\n2\n"), ContentType: ContentTypeCSV, Checksum: "c2"}))
	require.NoError(t, s.Put(ctx, "virat_kohli/tf/batting_stats.csv", Object{Body: []byte("a\n3\n")}))

	body, err := s.Get(ctx, "master/tf/batting_stats.csv")
	require.NoError(t, err)
	assert.Equal(t, "a\n2\n", string(body))

	sum, err := s.Checksum(ctx, "master/tf/batting_stats.csv")
	require.NoError(t, err)
	assert.Equal(t, "c2", sum)

	keys, err := s.List(ctx, "master/")
	require.NoError(t, err)
	assert.Equal(t, []string{"master/tf/batting_stats.csv"}, keys)

	keys, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestSQLiteStoreReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blobs.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", Object{Body: []byte("v")}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	body, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(body))
}

func TestListPrefixIsLiteral(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sqlite, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	for name, s := range map[string]Store{"sqlite": sqlite, "memory": NewMemoryStore()} {
		require.NoError(t, s.Put(ctx, "virat_kohli/tf/batting_stats.csv", Object{Body: []byte("a\n1\n")}), name)
		require.NoError(t, s.Put(ctx, "viratXkohli/tf/batting_stats.csv", Object{Body: []byte("a\n1\n")}), name)

		keys, err := s.List(ctx, "virat_kohli/")
		require.NoError(t, err, name)
		assert.Equal(t, []string{"virat_kohli/tf/batting_stats.csv"}, keys, name)
	}
}
