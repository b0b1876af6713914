package cricinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/cricstats/internal/stats"
)

// ErrPlayerNotFound is returned when the search page lists no player.
var ErrPlayerNotFound = errors.New("player not found")

// RawMatchID is the header appended to innings tables for the trailing
// match link cell.
const RawMatchID = "Match id"

// Ref is a search hit.
type Ref struct {
	ID  string
	URL string
}

// SearchPlayer resolves a player name to its cricinfo ID.
func (c *Client) SearchPlayer(ctx context.Context, name string) (Ref, error) {
	q := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "%20")
	u := c.cfg.SearchBaseURL + "/ci/content/site/search.html?search=" + q + ";type=player"

	doc, err := c.get(ctx, u)
	if err != nil {
		return Ref{}, fmt.Errorf("search %q: %w", name, err)
	}

	href, ok := doc.Find("h3.name.link-cta a").First().Attr("href")
	if !ok || href == "" {
		return Ref{}, fmt.Errorf("search %q: %w", name, ErrPlayerNotFound)
	}
	id := href[strings.LastIndex(href, "-")+1:]
	id = strings.TrimSuffix(id, "/")
	if id == "" {
		return Ref{}, fmt.Errorf("search %q: no id in %q: %w", name, href, ErrPlayerNotFound)
	}
	return Ref{ID: id, URL: href}, nil
}

// Innings fetches the innings-by-innings table of one category. Cells are
// kept as displayed text; typing happens in the transformer.
func (c *Client) Innings(ctx context.Context, playerID string, cat stats.Category) (*stats.Table, error) {
	if !cat.HasInnings() {
		return nil, fmt.Errorf("%s has no innings view", cat)
	}
	u := fmt.Sprintf("%s/ci/engine/player/%s.html?class=11;template=results;type=%s;view=innings",
		c.cfg.StatsBaseURL, playerID, cat)

	doc, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%s innings: %w", cat, err)
	}
	t, dropped := parseInnings(doc)
	if dropped > 0 {
		c.logger.Warn("Dropped malformed innings rows", "category", cat, "player_id", playerID, "dropped", dropped)
	}
	c.logger.Info("Extracted innings", "category", cat, "player_id", playerID, "rows", t.Len())
	return t, nil
}

// parseInnings reads the headlinks header and the rows of the fourth tbody,
// which holds the innings list on statsguru result pages. Rows whose
// non-empty cell count differs from the header are dropped.
func parseInnings(doc *goquery.Document) (*stats.Table, int) {
	var header []string
	doc.Find("thead tr.headlinks th").Each(func(_ int, s *goquery.Selection) {
		if h := strings.TrimSpace(s.Text()); h != "" {
			header = append(header, h)
		}
	})
	header = append(header, RawMatchID)

	t := stats.NewTable(header...)
	dropped := 0
	doc.Find("tbody").Eq(3).Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			if v := strings.TrimSpace(td.Text()); v != "" {
				cells = append(cells, v)
			}
		})
		if len(cells) == 0 {
			return
		}
		if len(cells) != len(header) {
			dropped++
			return
		}
		row := make(stats.Record, len(header))
		for i, h := range header {
			row[h] = cells[i]
		}
		t.Append(row)
	})
	return t, dropped
}

// Profile fetches the personal info grid of the profile page as a one-row
// table, with Player ID and Player Name added.
func (c *Client) Profile(ctx context.Context, name, playerID string) (*stats.Table, error) {
	page := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-") + "-" + playerID
	u := c.cfg.ProfileBaseURL + "/cricketers/" + page

	doc, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	t := parseProfile(doc, name, playerID)
	c.logger.Info("Extracted personal info", "player", name, "fields", len(t.Columns)-2)
	return t, nil
}

func parseProfile(doc *goquery.Document, name, playerID string) *stats.Table {
	grid := doc.Find("div.ds-grid.ds-mb-8").First()
	labels := grid.Find("p.ds-uppercase").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	values := grid.Find("span.ds-text-title-s.ds-font-bold").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})

	row := stats.Record{stats.ColPlayerID: playerID, stats.ColPlayerName: name}
	cols := []string{stats.ColPlayerID, stats.ColPlayerName}
	for i := 0; i < len(labels) && i < len(values); i++ {
		label := strings.ToUpper(labels[i])
		if label == "" {
			continue
		}
		if _, dup := row[label]; dup {
			continue
		}
		cols = append(cols, label)
		row[label] = values[i]
	}

	t := stats.NewTable(cols...)
	t.Append(row)
	return t
}
