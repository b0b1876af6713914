package ingest

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/cricstats/internal/aggregate"
	"github.com/albapepper/cricstats/internal/player"
	"github.com/albapepper/cricstats/internal/provider/cricinfo"
	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
	"github.com/albapepper/cricstats/internal/transform"
)

// Scraper fetches a player's raw tables. *cricinfo.Client implements it.
type Scraper interface {
	Scrape(ctx context.Context, name string, cats []stats.Category) (*cricinfo.Scraped, error)
}

// Pipeline wires the stages to one table store.
type Pipeline struct {
	scraper     Scraper
	loader      *storage.Loader
	transformer *transform.Transformer
	aggregator  *aggregate.Aggregator
	logger      *slog.Logger
}

// New creates a pipeline. scraper may be nil when only the offline stages
// are used.
func New(scraper Scraper, loader *storage.Loader, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		scraper:     scraper,
		loader:      loader,
		transformer: transform.New(logger),
		aggregator:  aggregate.New(loader, logger),
		logger:      logger,
	}
}

// Aggregator returns the aggregator bound to the pipeline's store.
func (p *Pipeline) Aggregator() *aggregate.Aggregator { return p.aggregator }

// Scrape fetches the selected categories and writes them to the raw stage.
// Personal info is always fetched and written.
func (p *Pipeline) Scrape(ctx context.Context, name string, cats []stats.Category) (player.Player, StageResult, error) {
	res := StageResult{Stage: string(storage.StageRaw)}
	if p.scraper == nil {
		return player.Player{}, res, errors.New("scrape: no scraper configured")
	}

	scraped, err := p.scraper.Scrape(ctx, name, cats)
	if err != nil {
		return player.Player{}, res, errors.Wrapf(err, "scrape %q", name)
	}
	pl := scraped.Player

	for _, c := range slices.Sorted(maps.Keys(scraped.Errors)) {
		res.AddErrorf("%s: %v", c, scraped.Errors[c])
	}
	for _, c := range slices.Sorted(maps.Keys(scraped.Tables)) {
		t := scraped.Tables[c]
		p.save(ctx, &res, storage.SourceKey(pl.Slug, storage.StageRaw, c), t)
	}
	return pl, res, nil
}

// Transform reads the raw tables of the selected categories (plus personal
// info) and writes their transformed versions.
func (p *Pipeline) Transform(ctx context.Context, pl player.Player, cats []stats.Category) StageResult {
	res := StageResult{Stage: string(storage.StageTransformed)}
	for _, c := range withPersonalInfo(cats) {
		if c == stats.Allround && !pl.HasAllroundStats {
			continue
		}
		raw, err := p.loader.Load(ctx, storage.SourceKey(pl.Slug, storage.StageRaw, c))
		if err != nil {
			res.AddErrorf("%s: load raw: %v", c, err)
			continue
		}
		if raw == nil {
			p.logger.Info("No raw table, skipping", "player", pl.Name, "category", c)
			res.TablesSkipped++
			continue
		}

		out, rep, err := p.transformer.Table(raw, c)
		if err != nil {
			res.AddErrorf("%s: transform: %v", c, err)
			continue
		}
		for _, n := range rep.CastFailures {
			res.CastFailures += n
		}
		p.save(ctx, &res, storage.SourceKey(pl.Slug, storage.StageTransformed, c), out)
	}
	return res
}

// Resolve rebuilds a player's identity from stored personal info, preferring
// the transformed table. Used when a stage runs without a fresh scrape.
func (p *Pipeline) Resolve(ctx context.Context, name string) (player.Player, error) {
	slug := player.Slug(name)
	for _, stage := range []storage.Stage{storage.StageTransformed, storage.StageRaw} {
		info, err := p.loader.Load(ctx, storage.SourceKey(slug, stage, stats.PersonalInfo))
		if err != nil {
			return player.Player{}, err
		}
		if info != nil {
			return player.FromPersonalInfo(info, name)
		}
	}
	return player.Player{}, errors.Newf("no personal info stored for %q; run scrape first", name)
}

// Aggregate folds the player's transformed tables into the scope's masters.
func (p *Pipeline) Aggregate(ctx context.Context, pl player.Player, cats []stats.Category, scope storage.Scope) *aggregate.Result {
	return p.aggregator.Run(ctx, aggregate.Request{Player: pl, Categories: cats, Scope: scope})
}

// Run executes scrape, transform and aggregate for one player.
func (p *Pipeline) Run(ctx context.Context, name string, cats []stats.Category, scope storage.Scope) (*aggregate.Result, error) {
	start := time.Now()

	pl, scraped, err := p.Scrape(ctx, name, cats)
	if err != nil {
		return nil, err
	}
	p.logStage(pl, scraped)

	transformed := p.Transform(ctx, pl, cats)
	p.logStage(pl, transformed)

	res := p.Aggregate(ctx, pl, cats, scope)
	p.logger.Info("Pipeline finished",
		"player", pl.Name, "duration", time.Since(start).Round(time.Millisecond),
		"summary", res.Summary())
	return res, nil
}

func (p *Pipeline) save(ctx context.Context, res *StageResult, key storage.Key, t *stats.Table) {
	saved, err := p.loader.Save(ctx, key, t)
	if err != nil {
		res.AddErrorf("%s: save: %v", key.Category, err)
		return
	}
	res.Rows += t.Len()
	if saved == storage.SaveWritten {
		res.TablesWritten++
	} else {
		res.TablesSkipped++
	}
}

func (p *Pipeline) logStage(pl player.Player, r StageResult) {
	p.logger.Info("Stage finished", "player", pl.Name, "summary", r.Summary())
	for _, e := range r.Errors {
		p.logger.Error("Stage error", "stage", r.Stage, "error", e)
	}
}

func withPersonalInfo(cats []stats.Category) []stats.Category {
	out := slices.Clone(cats)
	if len(out) == 0 {
		out = stats.Categories()
	}
	if !slices.Contains(out, stats.PersonalInfo) {
		out = append(out, stats.PersonalInfo)
	}
	return out
}
