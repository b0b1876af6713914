package transform

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/cricstats/internal/stats"
)

func newTransformer() *Transformer {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func rawBatting() *stats.Table {
	t := stats.NewTable("Runs", "Mins", "BF", "4s", "6s", "SR", "Pos", "Dismissal", "Inns", "Opposition", "Ground", "Start Date", "Match id")
	t.Append(stats.Record{
		"Runs": "87*", "Mins": "-", "BF": "90", "4s": "8", "6s": "2", "SR": "96.66", "Pos": "3",
		"Dismissal": "not out", "Inns": "1", "Opposition": "ODI v Australia", "Ground": "Lord's",
		"Start Date": "1 Mar 2023", "Match id": "ODI # 2701",
	})
	t.Append(stats.Record{
		"Runs": "DNB", "Mins": "-", "BF": "-", "4s": "-", "6s": "-", "SR": "-", "Pos": "-",
		"Dismissal": "-", "Inns": "2", "Opposition": "Test v Sri Lanka", "Ground": "Colombo (SSC)",
		"Start Date": "05 Aug 2015", "Match id": "Test # 2176",
	})
	return t
}

func TestTableBatting(t *testing.T) {
	t.Parallel()
	out, rep, err := newTransformer().Table(rawBatting(), stats.Batting)
	require.NoError(t, err)

	wantCols := []string{"Match ID", "Start Date", "Format", "Inns", "Pos", "Runs", "BF", "4s", "6s", "SR", "Mins", "Dismissal", "Opposition", "Location"}
	assert.Equal(t, wantCols, out.Columns)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, 2, rep.Rows)
	assert.Empty(t, rep.CastFailures)

	first := out.Rows[0]
	assert.Equal(t, "#2701", first["Match ID"])
	assert.Equal(t, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), first["Start Date"])
	assert.Equal(t, "ODI", first["Format"])
	assert.Equal(t, "Australia", first["Opposition"])
	assert.Equal(t, "London", first["Location"])
	assert.Equal(t, int64(87), first["Runs"])
	assert.Equal(t, 96.66, first["SR"])
	assert.Nil(t, first["Mins"])

	second := out.Rows[1]
	assert.Equal(t, "Test", second["Format"])
	assert.Equal(t, "Sri Lanka", second["Opposition"])
	assert.Equal(t, "Colombo", second["Location"])
	assert.Equal(t, time.Date(2015, 8, 5, 0, 0, 0, 0, time.UTC), second["Start Date"])
	assert.Nil(t, second["Runs"])
	assert.Nil(t, second["Dismissal"])
}

func TestTableCastFailuresBecomeMissing(t *testing.T) {
	t.Parallel()
	raw := stats.NewTable("Dis", "Ct", "Inns", "Opposition", "Ground", "Start Date", "Match id")
	raw.Append(stats.Record{
		"Dis": "one", "Ct": "1", "Inns": "1", "Opposition": "T20I v India", "Ground": "Mirpur",
		"Start Date": "sometime", "Match id": "T20I # 501",
	})

	out, rep, err := newTransformer().Table(raw, stats.Fielding)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Nil(t, out.Rows[0]["Dis"])
	assert.Nil(t, out.Rows[0]["Start Date"])
	assert.Equal(t, int64(1), out.Rows[0]["Ct"])
	assert.Equal(t, "Mirpur", out.Rows[0]["Location"])
	assert.Equal(t, map[string]int{"Dis": 1, "Start Date": 1}, rep.CastFailures)
}

func TestTableMissingColumns(t *testing.T) {
	t.Parallel()
	raw := stats.NewTable("Dis", "Inns", "Opposition", "Ground", "Start Date", "Match id")
	raw.Append(stats.Record{"Dis": "2", "Inns": "1", "Opposition": "ODI v Kenya", "Ground": "Nairobi", "Start Date": "2006-08-15", "Match id": "ODI # 2400"})

	out, rep, err := newTransformer().Table(raw, stats.Fielding)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ct"}, rep.MissingColumns)
	assert.Nil(t, out.Rows[0]["Ct"])

	noOpp := stats.NewTable("Dis", "Ground", "Start Date", "Match id")
	noOpp.Append(stats.Record{"Dis": "2"})
	_, _, err = newTransformer().Table(noOpp, stats.Fielding)
	assert.ErrorIs(t, err, stats.ErrSchemaMismatch)
}

func TestTableEmpty(t *testing.T) {
	t.Parallel()
	out, _, err := newTransformer().Table(nil, stats.Bowling)
	require.NoError(t, err)
	assert.True(t, out.Empty())
	assert.Equal(t, stats.SchemaFor(stats.Bowling).SourceColumns()[0].Name, out.Columns[0])
}

func TestTablePersonalInfo(t *testing.T) {
	t.Parallel()
	raw := stats.NewTable(stats.ColPlayerID, stats.ColPlayerName, stats.ColRole)
	raw.Append(stats.Record{stats.ColPlayerID: " 253802 ", stats.ColPlayerName: "Virat Kohli", stats.ColRole: "  "})

	out, _, err := newTransformer().Table(raw, stats.PersonalInfo)
	require.NoError(t, err)
	assert.Equal(t, "253802", out.Rows[0][stats.ColPlayerID])
	assert.Nil(t, out.Rows[0][stats.ColRole])
}

func TestHelpers(t *testing.T) {
	t.Parallel()
	f, o := splitOpposition("Test v West Indies")
	assert.Equal(t, "Test", f)
	assert.Equal(t, "West Indies", o)
	f, o = splitOpposition("Australia")
	assert.Empty(t, f)
	assert.Empty(t, o)

	assert.Equal(t, "#2701", matchID("ODI # 2701"))
	assert.Empty(t, matchID("abandoned"))
	assert.Equal(t, "Perth", location("W.A.C.A"))
	assert.Equal(t, "Adelaide", location("Adelaide"))
}
