package cricinfo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/cricstats/internal/stats"
)

const searchPage = `<html><body>
<div class="results">
  <h3 class="name link-cta"><a href="https://www.espncricinfo.com/cricketers/virat-kohli-253802">Virat Kohli</a></h3>
  <h3 class="name link-cta"><a href="https://www.espncricinfo.com/cricketers/virat-kohli-jr-999">Virat Kohli Jr</a></h3>
</div></body></html>`

const emptySearchPage = `<html><body><p>No results</p></body></html>`

func profilePage(role string) string {
	return `<html><body>
<div class="ds-grid lg:ds-grid-cols-3 ds-grid-cols-2 ds-gap-4 ds-mb-8">
  <div><p class="ds-text-tight-m ds-font-regular ds-uppercase ds-text-typo-mid3">Full Name</p>
       <span class="ds-text-title-s ds-font-bold ds-text-typo">Virat Kohli</span></div>
  <div><p class="ds-text-tight-m ds-font-regular ds-uppercase ds-text-typo-mid3">Born</p>
       <span class="ds-text-title-s ds-font-bold ds-text-typo">November 05, 1988, Delhi</span></div>
  <div><p class="ds-text-tight-m ds-font-regular ds-uppercase ds-text-typo-mid3">Playing Role</p>
       <span class="ds-text-title-s ds-font-bold ds-text-typo">` + role + `</span></div>
</div></body></html>`
}

// inningsPage renders a statsguru-like page: three leading tbodies of
// summary tables, then the innings list.
func inningsPage(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table><thead><tr class="headlinks">`)
	for _, h := range headers {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString(`</tr></thead>`)
	for i := 0; i < 3; i++ {
		b.WriteString(`<tbody><tr><td>summary</td></tr></tbody>`)
	}
	b.WriteString(`<tbody>`)
	for _, r := range rows {
		b.WriteString("<tr>")
		for _, c := range r {
			fmt.Fprintf(&b, "<td>%s</td>", c)
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

var battingHeaders = []string{"Runs", "BF", "Pos", "Dismissal", "Inns", "", "Opposition", "Ground", "Start Date"}

var battingRows = [][]string{
	{"87*", "90", "3", "not out", "1", "", "ODI v Australia", "Sydney", "1 Mar 2023", "ODI # 4001"},
	{"12", "20", "3", "caught", "2", "", "Test v England", "Lord's", "10 Jun 2023", "Test # 2500"},
	{"broken", "row"},
}

type fakeSite struct {
	role     string
	requests atomic.Int32
	failType string
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	switch {
	case r.URL.Path == "/ci/content/site/search.html":
		if strings.Contains(r.URL.RawQuery, "nobody") {
			io.WriteString(w, emptySearchPage)
			return
		}
		io.WriteString(w, searchPage)
	case r.URL.Path == "/cricketers/virat-kohli-253802":
		io.WriteString(w, profilePage(f.role))
	case r.URL.Path == "/ci/engine/player/253802.html":
		if f.failType != "" && strings.Contains(r.URL.RawQuery, "type="+f.failType) {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		io.WriteString(w, inningsPage(battingHeaders, battingRows))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, site http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		SearchBaseURL:     srv.URL,
		StatsBaseURL:      srv.URL,
		ProfileBaseURL:    srv.URL,
		RequestsPerMinute: 60 * 1000,
		Concurrency:       2,
		UserAgent:         "cricstats-test",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchPlayer(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, &fakeSite{})

	ref, err := c.SearchPlayer(context.Background(), "Virat Kohli")
	require.NoError(t, err)
	assert.Equal(t, "253802", ref.ID)
	assert.Contains(t, ref.URL, "virat-kohli-253802")

	_, err = c.SearchPlayer(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestInnings(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, &fakeSite{})

	tbl, err := c.Innings(context.Background(), "253802", stats.Batting)
	require.NoError(t, err)

	assert.Equal(t, []string{"Runs", "BF", "Pos", "Dismissal", "Inns", "Opposition", "Ground", "Start Date", RawMatchID}, tbl.Columns)
	require.Equal(t, 2, tbl.Len(), "malformed row is dropped")
	assert.Equal(t, "87*", tbl.Rows[0]["Runs"])
	assert.Equal(t, "ODI v Australia", tbl.Rows[0]["Opposition"])
	assert.Equal(t, "ODI # 4001", tbl.Rows[0][RawMatchID])

	_, err = c.Innings(context.Background(), "253802", stats.PersonalInfo)
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, &fakeSite{role: "Top order Batter"})

	tbl, err := c.Profile(context.Background(), "Virat Kohli", "253802")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{stats.ColPlayerID, stats.ColPlayerName, "FULL NAME", "BORN", stats.ColRole}, tbl.Columns)
	assert.Equal(t, "253802", tbl.Rows[0][stats.ColPlayerID])
	assert.Equal(t, "Top order Batter", tbl.Rows[0][stats.ColRole])
}

func TestScrapeSkipsAllroundForBatter(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, &fakeSite{role: "Top order Batter"})

	got, err := c.Scrape(context.Background(), "Virat Kohli", []stats.Category{stats.Batting, stats.Allround, stats.PersonalInfo})
	require.NoError(t, err)
	assert.Equal(t, "253802", got.Player.ID)
	assert.False(t, got.Player.HasAllroundStats)
	assert.Contains(t, got.Tables, stats.Batting)
	assert.Contains(t, got.Tables, stats.PersonalInfo)
	assert.NotContains(t, got.Tables, stats.Allround)
	assert.Empty(t, got.Errors)
}

func TestScrapeCategoryFailureIsIsolated(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, &fakeSite{role: "Batting Allrounder", failType: "bowling"})

	got, err := c.Scrape(context.Background(), "Virat Kohli", []stats.Category{stats.Batting, stats.Bowling, stats.Allround})
	require.NoError(t, err)
	assert.True(t, got.Player.HasAllroundStats)
	assert.Contains(t, got.Tables, stats.Batting)
	assert.Contains(t, got.Tables, stats.Allround)
	require.Contains(t, got.Errors, stats.Bowling)
	assert.Contains(t, got.Errors[stats.Bowling].Error(), "500")
}

func TestScrapeUnknownPlayer(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, &fakeSite{})

	_, err := c.Scrape(context.Background(), "nobody", []stats.Category{stats.Batting})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
