package storage

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/zeebo/xxh3"

	"github.com/albapepper/cricstats/internal/stats"
)

// Loader reads and writes category tables as CSV objects.
type Loader struct {
	store  Store
	logger *slog.Logger
}

// NewLoader creates a loader over store.
func NewLoader(store Store, logger *slog.Logger) *Loader {
	return &Loader{store: store, logger: logger}
}

// Store returns the underlying blob store.
func (l *Loader) Store() Store { return l.store }

// Load reads the table at key. A missing object, or one without a header
// row, yields (nil, nil).
func (l *Loader) Load(ctx context.Context, key Key) (*stats.Table, error) {
	k := key.String()
	body, err := l.store.Get(ctx, k)
	if errors.Is(err, ErrNotFound) {
		l.logger.Debug("No table stored", "key", k)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := stats.ReadCSV(bytes.NewReader(body), decodeSchema(key))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", k)
	}
	if len(t.Columns) == 0 {
		l.logger.Warn("Stored table has no header, treating as absent", "key", k)
		return nil, nil
	}
	return t, nil
}

// decodeSchema types transformed and aggregated tables by the registry. Raw
// tables keep every cell as scraped text.
func decodeSchema(key Key) stats.Schema {
	if key.Stage == StageRaw {
		return stats.Schema{Category: key.Category}
	}
	return stats.SchemaFor(key.Category)
}

// SaveResult reports what Save did.
type SaveResult int

const (
	SaveSkippedEmpty SaveResult = iota
	SaveUnchanged
	SaveWritten
)

// Save writes t to key. Empty tables are never written, and a body whose
// checksum matches the stored object is not rewritten.
func (l *Loader) Save(ctx context.Context, key Key, t *stats.Table) (SaveResult, error) {
	k := key.String()
	if t.Empty() {
		l.logger.Debug("Empty table, nothing to write", "key", k)
		return SaveSkippedEmpty, nil
	}

	var buf bytes.Buffer
	if err := stats.WriteCSV(&buf, t); err != nil {
		return 0, errors.Wrapf(err, "encode %s", k)
	}
	sum := Checksum(buf.Bytes())

	prev, err := l.store.Checksum(ctx, k)
	switch {
	case err == nil && prev == sum:
		l.logger.Debug("Table unchanged, skipping write", "key", k, "checksum", sum)
		return SaveUnchanged, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return 0, err
	}

	if err := l.store.Put(ctx, k, Object{Body: buf.Bytes(), ContentType: ContentTypeCSV, Checksum: sum}); err != nil {
		return 0, err
	}
	l.logger.Info("Table written", "key", k, "rows", t.Len(), "bytes", buf.Len())
	return SaveWritten, nil
}

// Checksum is the content hash stored alongside every object.
func Checksum(body []byte) string {
	return strconv.FormatUint(xxh3.Hash(body), 16)
}
