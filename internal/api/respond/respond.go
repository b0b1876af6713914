// Package respond writes the API's JSON bodies: stored tables, aggregation
// reports and the shared error shape.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/cricstats/internal/aggregate"
	"github.com/albapepper/cricstats/internal/cache"
	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
)

const noStore = "no-cache, no-store, must-revalidate"

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

// TableResponse is the JSON shape of a stored table. Dates are calendar
// strings and missing cells are null.
type TableResponse struct {
	Key     string           `json:"key"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// AggregateResponse reports the per-category outcomes of a run.
type AggregateResponse struct {
	Player   string              `json:"player"`
	Scope    storage.Scope       `json:"scope"`
	Summary  string              `json:"summary"`
	Outcomes []aggregate.Outcome `json:"outcomes"`
}

// --------------------------------------------------------------------------
// Tables
// --------------------------------------------------------------------------

// EncodeTable renders t as the body served for key.
func EncodeTable(key storage.Key, t *stats.Table) ([]byte, error) {
	rows := make([]map[string]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make(map[string]any, len(t.Columns))
		for _, col := range t.Columns {
			v := r[col]
			if d, ok := v.(time.Time); ok {
				v = d.Format(stats.DateLayout)
			}
			row[col] = v
		}
		rows[i] = row
	}
	return json.Marshal(TableResponse{Key: key.String(), Columns: t.Columns, Rows: rows})
}

// Table serves an encoded table body. A request whose If-None-Match carries
// etag gets a bare 304.
func Table(w http.ResponseWriter, r *http.Request, body []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("ETag", etag)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	maxAge := int(ttl.Seconds())
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Aggregate writes the run report: 200 when every category succeeded, 207
// when some failed.
func Aggregate(w http.ResponseWriter, res *aggregate.Result) {
	status := http.StatusOK
	if len(res.Failed()) > 0 {
		status = http.StatusMultiStatus
	}
	JSON(w, status, AggregateResponse{
		Player:   res.Player,
		Scope:    res.Scope,
		Summary:  res.Summary(),
		Outcomes: res.Outcomes,
	})
}

// --------------------------------------------------------------------------
// Generic
// --------------------------------------------------------------------------

// JSON marshals v and writes it uncached.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", noStore)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error sends a structured JSON error response.
func Error(w http.ResponseWriter, status int, code, message string) {
	ErrorDetail(w, status, code, message, "")
}

// ErrorDetail sends a structured error with additional detail.
func ErrorDetail(w http.ResponseWriter, status int, code, message, detail string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Detail = detail
	JSON(w, status, resp)
}

// StorageError reports a failed read against the blob store as 502.
func StorageError(w http.ResponseWriter, message string, err error) {
	ErrorDetail(w, http.StatusBadGateway, "STORAGE_ERROR", message, err.Error())
}
