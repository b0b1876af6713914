// Package storage persists category tables as CSV objects in a key/value blob
// store. Backends: Google Cloud Storage, Postgres, SQLite and memory.
package storage

import (
	"context"
	"path"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/cricstats/internal/stats"
)

// ErrNotFound is returned by Get and Checksum when no object exists under the
// key. An absent table is a valid state, not a failure.
var ErrNotFound = errors.New("object not found")

// ErrStorage marks failures of the underlying store so callers can tell them
// apart from data errors.
var ErrStorage = errors.New("storage failure")

// ContentTypeCSV is the content type every table is written with.
const ContentTypeCSV = "text/csv"

// Object is a blob together with its metadata.
type Object struct {
	Body        []byte
	ContentType string
	Checksum    string
}

// Store is a key/value blob store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, obj Object) error
	Checksum(ctx context.Context, key string) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// storageErr marks a backend error with ErrStorage. errors.Is from this
// package matches both the mark and the original cause.
func storageErr(op, key string, err error) error {
	return errors.Wrapf(errors.Mark(err, ErrStorage), "%s %s", op, key)
}

// --------------------------------------------------------------------------
// Layout
// --------------------------------------------------------------------------

// Stage is the processing stage segment of an object key.
type Stage string

const (
	StageRaw         Stage = "raw"
	StageTransformed Stage = "tf"
	StageAggregated  Stage = "agg"
)

// MasterSegment replaces the player segment for cross-player master tables.
const MasterSegment = "master"

// Key addresses one category table: <segment>/<stage>/<file>.
type Key struct {
	Segment  string
	Stage    Stage
	Category stats.Category
}

func (k Key) String() string {
	return path.Join(k.Segment, string(k.Stage), stats.SchemaFor(k.Category).File)
}

// Scope selects where aggregated master tables live.
type Scope string

const (
	// ScopePlayer keeps one aggregate per player under <slug>/agg/.
	ScopePlayer Scope = "player"
	// ScopeMaster folds every player into master/tf/.
	ScopeMaster Scope = "master"
)

// ParseScope validates a scope flag value.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopePlayer:
		return ScopePlayer, nil
	case ScopeMaster, "":
		return ScopeMaster, nil
	default:
		return "", errors.Newf("unknown scope %q (want player or master)", s)
	}
}

// SourceKey is where a player's table for the given stage lives.
func SourceKey(slug string, stage Stage, c stats.Category) Key {
	return Key{Segment: slug, Stage: stage, Category: c}
}

// TargetKey is where the aggregated table for a scope lives.
func TargetKey(scope Scope, slug string, c stats.Category) Key {
	if scope == ScopePlayer {
		return Key{Segment: slug, Stage: StageAggregated, Category: c}
	}
	return Key{Segment: MasterSegment, Stage: StageTransformed, Category: c}
}
