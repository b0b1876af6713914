// Package aggregate folds a player's transformed category tables into the
// stored master tables, one category at a time.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/cricstats/internal/player"
	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
)

// Tables is the persistence the aggregator reads from and writes to.
// *storage.Loader implements it.
type Tables interface {
	Load(ctx context.Context, key storage.Key) (*stats.Table, error)
	Save(ctx context.Context, key storage.Key, t *stats.Table) (storage.SaveResult, error)
}

// Request selects what one run aggregates.
type Request struct {
	Player     player.Player
	Categories []stats.Category
	Scope      storage.Scope
}

// Aggregator runs merge-upserts against a table store. Runs that target the
// same master segment are serialized; everything else about a run is local
// to it.
type Aggregator struct {
	tables Tables
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an aggregator.
func New(tables Tables, logger *slog.Logger) *Aggregator {
	return &Aggregator{tables: tables, logger: logger, locks: map[string]*sync.Mutex{}}
}

// Run aggregates every requested category. Categories are processed in
// enumeration order and personal info is always refreshed last if it was
// not requested. A category failure is recorded and the run moves on.
func (a *Aggregator) Run(ctx context.Context, req Request) *Result {
	scope := req.Scope
	if scope == "" {
		scope = storage.ScopeMaster
	}
	segment := storage.TargetKey(scope, req.Player.Slug, stats.PersonalInfo).Segment
	unlock := a.lock(segment)
	defer unlock()

	start := time.Now()
	res := &Result{Player: req.Player.Name, Scope: scope}
	for _, c := range selection(req.Categories) {
		if err := ctx.Err(); err != nil {
			res.add(Outcome{Category: c, Status: StatusFailed, Error: fmt.Sprintf("%s: %v", c, err), err: err})
			continue
		}
		out := a.category(ctx, req.Player, scope, c)
		a.log(req.Player, out)
		res.add(out)
	}
	res.Duration = time.Since(start)

	a.logger.Info("Aggregation finished",
		"player", req.Player.Name, "scope", scope,
		"duration", res.Duration.Round(time.Millisecond), "summary", res.Summary())
	return res
}

// selection orders and dedups the requested categories. Nil means all.
func selection(requested []stats.Category) []stats.Category {
	out := slices.Clone(requested)
	if len(out) == 0 {
		return stats.Categories()
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// category runs load -> stamp -> load master -> merge -> save for one
// category. The target is only written after every prior step succeeded.
func (a *Aggregator) category(ctx context.Context, p player.Player, scope storage.Scope, c stats.Category) Outcome {
	start := time.Now()
	target := storage.TargetKey(scope, p.Slug, c)
	out := Outcome{Category: c, Key: target.String()}
	done := func(status Status, err error) Outcome {
		out.Status = status
		out.Duration = time.Since(start)
		if err != nil {
			out.err = errors.Wrapf(err, "%s", c)
			out.Error = out.err.Error()
		}
		return out
	}

	if c == stats.Allround && !p.HasAllroundStats {
		out.Reason = "player has no all-round stats"
		return done(StatusSkipped, nil)
	}

	incoming, err := a.tables.Load(ctx, storage.SourceKey(p.Slug, storage.StageTransformed, c))
	if err != nil {
		return done(StatusFailed, errors.Wrap(err, "load incoming"))
	}
	if incoming.Empty() {
		out.Reason = "no transformed data"
		return done(StatusNoop, nil)
	}

	batch := incoming
	if c.HasInnings() {
		if batch, err = stats.Stamp(incoming, p.ID); err != nil {
			return done(StatusFailed, err)
		}
	}
	out.Incoming = batch.Len()

	master, err := a.tables.Load(ctx, target)
	if err != nil {
		return done(StatusFailed, errors.Wrap(err, "load master"))
	}

	merged, err := stats.Merge(master, batch, stats.SchemaFor(c).Keys)
	if err != nil {
		return done(StatusFailed, errors.Wrap(err, "merge"))
	}
	out.Rows = merged.Len()

	saved, err := a.tables.Save(ctx, target, merged)
	if err != nil {
		return done(StatusFailed, errors.Wrap(err, "save"))
	}
	out.Written = saved == storage.SaveWritten
	return done(StatusMerged, nil)
}

func (a *Aggregator) log(p player.Player, o Outcome) {
	attrs := []any{
		"player", p.Name, "category", o.Category, "status", o.Status,
		"key", o.Key, "duration", o.Duration.Round(time.Millisecond),
	}
	switch o.Status {
	case StatusFailed:
		a.logger.Error("Category failed", append(attrs, "error", o.Error)...)
	case StatusMerged:
		a.logger.Info("Category merged", append(attrs, "incoming", o.Incoming, "rows", o.Rows, "written", o.Written)...)
	default:
		a.logger.Info("Category not merged", append(attrs, "reason", o.Reason)...)
	}
}

// lock serializes runs writing to the same segment.
func (a *Aggregator) lock(segment string) func() {
	a.mu.Lock()
	m, ok := a.locks[segment]
	if !ok {
		m = &sync.Mutex{}
		a.locks[segment] = m
	}
	a.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// IsStorageFailure reports whether an outcome failed in the storage layer
// rather than on the data.
func IsStorageFailure(o Outcome) bool {
	return errors.Is(o.err, storage.ErrStorage)
}
