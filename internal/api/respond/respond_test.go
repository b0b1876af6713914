package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/cricstats/internal/aggregate"
	"github.com/albapepper/cricstats/internal/cache"
	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
)

func TestEncodeTable(t *testing.T) {
	t.Parallel()
	tbl := stats.NewTable(stats.ColMatchID, stats.ColStartDate, "Runs")
	tbl.Append(stats.Record{
		stats.ColMatchID:   "#4001",
		stats.ColStartDate: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		"Runs":             nil,
	})
	key := storage.TargetKey(storage.ScopeMaster, "virat_kohli", stats.Batting)

	body, err := EncodeTable(key, tbl)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"key": "master/tf/batting_stats.csv",
		"columns": ["Match ID", "Start Date", "Runs"],
		"rows": [{"Match ID": "#4001", "Start Date": "2023-03-01", "Runs": null}]
	}`, string(body))
}

func TestTableConditional(t *testing.T) {
	t.Parallel()
	body := []byte(`{"key":"k"}`)
	etag := cache.ComputeETag(body)

	rec := httptest.NewRecorder()
	Table(rec, httptest.NewRequest(http.MethodGet, "/", nil), body, etag, time.Minute, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "public, max-age=60, stale-while-revalidate=30", rec.Header().Get("Cache-Control"))
	assert.Equal(t, string(body), rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", `W/"other", `+etag)
	rec = httptest.NewRecorder()
	Table(rec, req, body, etag, time.Minute, true)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Equal(t, etag, rec.Header().Get("ETag"))
	assert.Empty(t, rec.Body.String())
}

func TestAggregateStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		outcomes []aggregate.Outcome
		want     int
	}{
		{"all merged", []aggregate.Outcome{{Category: stats.Batting, Status: aggregate.StatusMerged}}, http.StatusOK},
		{"some failed", []aggregate.Outcome{
			{Category: stats.Batting, Status: aggregate.StatusMerged},
			{Category: stats.Bowling, Status: aggregate.StatusFailed, Error: "bowling: merge: schema mismatch"},
		}, http.StatusMultiStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Aggregate(rec, &aggregate.Result{Player: "Virat Kohli", Scope: storage.ScopeMaster, Outcomes: tc.outcomes})
			assert.Equal(t, tc.want, rec.Code)

			var resp AggregateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Virat Kohli", resp.Player)
			assert.Len(t, resp.Outcomes, len(tc.outcomes))
		})
	}
}

func TestStorageError(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	StorageError(rec, "Failed to read table", assert.AnError)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "STORAGE_ERROR", resp.Error.Code)
	assert.Equal(t, assert.AnError.Error(), resp.Error.Detail)
}
