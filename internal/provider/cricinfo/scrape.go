package cricinfo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/albapepper/cricstats/internal/player"
	"github.com/albapepper/cricstats/internal/stats"
)

// Scraped is everything fetched for one player.
type Scraped struct {
	Player player.Player
	Tables map[stats.Category]*stats.Table
	Errors map[stats.Category]error
}

type fetched struct {
	cat   stats.Category
	table *stats.Table
	err   error
}

// Scrape resolves the player, fetches the profile (its playing role decides
// whether allround stats exist) and then the selected innings tables
// concurrently. A failed category is reported in Errors and does not stop
// the others; only search and profile failures abort.
func (c *Client) Scrape(ctx context.Context, name string, cats []stats.Category) (*Scraped, error) {
	start := time.Now()
	ref, err := c.SearchPlayer(ctx, name)
	if err != nil {
		return nil, err
	}
	info, err := c.Profile(ctx, name, ref.ID)
	if err != nil {
		return nil, err
	}
	p, err := player.FromPersonalInfo(info, name)
	if err != nil {
		return nil, err
	}

	out := &Scraped{
		Player: p,
		Tables: map[stats.Category]*stats.Table{stats.PersonalInfo: info},
		Errors: map[stats.Category]error{},
	}

	pl := pool.NewWithResults[fetched]().WithContext(ctx).WithMaxGoroutines(c.cfg.Concurrency)
	for _, cat := range cats {
		if !cat.HasInnings() {
			continue
		}
		if cat == stats.Allround && !p.HasAllroundStats {
			c.logger.Info("Player is not an allrounder, skipping allround stats", "player", p.Name, "role", p.Role)
			continue
		}
		pl.Go(func(ctx context.Context) (fetched, error) {
			t, err := c.Innings(ctx, p.ID, cat)
			return fetched{cat: cat, table: t, err: err}, nil
		})
	}
	results, err := pl.Wait()
	if err != nil {
		return nil, fmt.Errorf("scrape %q: %w", name, err)
	}
	slices.SortFunc(results, func(a, b fetched) int { return int(a.cat) - int(b.cat) })
	for _, r := range results {
		if r.err != nil {
			out.Errors[r.cat] = r.err
			continue
		}
		out.Tables[r.cat] = r.table
	}

	c.logger.Info("Scrape complete", "player", p.Name, "id", p.ID,
		"tables", len(out.Tables), "errors", len(out.Errors),
		"duration", time.Since(start).Round(time.Millisecond))
	return out, nil
}
