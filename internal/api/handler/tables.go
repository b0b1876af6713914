package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/cricstats/internal/api/respond"
	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
)

// tableCachePrefix namespaces table responses in the cache.
const tableCachePrefix = "table:"

// GetTable returns one stored category table.
// @Summary Get a category table
// @Description Returns a stored table for a player slug or the master segment. Dates are rendered as YYYY-MM-DD and missing cells as null.
// @Tags tables
// @Produce json
// @Param segment path string true "Player slug or master"
// @Param category path string true "Category" Enums(batting, bowling, fielding, allround, personal_info)
// @Param stage query string false "Stage (defaults to tf for master, agg for players)" Enums(raw, tf, agg)
// @Success 200 {object} respond.TableResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /tables/{segment}/{category} [get]
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "segment")
	if !validSegment(segment) {
		respond.Error(w, http.StatusBadRequest, "INVALID_SEGMENT", "segment must be a player slug or 'master'")
		return
	}
	cat, err := stats.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "INVALID_CATEGORY", err.Error())
		return
	}
	stage, ok := parseStage(r.URL.Query().Get("stage"), segment)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "INVALID_STAGE", "stage must be raw, tf or agg")
		return
	}

	key := storage.Key{Segment: segment, Stage: stage, Category: cat}
	cacheKey := tableCachePrefix + key.String()
	ttl := h.cache.TTL()

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		respond.Table(w, r, data, etag, ttl, true)
		return
	}

	t, err := h.loader.Load(r.Context(), key)
	if err != nil {
		respond.StorageError(w, "Failed to read table", err)
		return
	}
	if t == nil {
		respond.Error(w, http.StatusNotFound, "NOT_FOUND", "No table stored at "+key.String())
		return
	}

	data, err := respond.EncodeTable(key, t)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "ENCODE_ERROR", "Failed to encode table")
		return
	}
	respond.Table(w, r, data, h.cache.Set(cacheKey, data), ttl, false)
}

// ListTables lists the object keys stored under a segment.
// @Summary List stored tables
// @Description Returns the keys of every table stored under a player slug or the master segment.
// @Tags tables
// @Produce json
// @Param segment path string true "Player slug or master"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /tables/{segment} [get]
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	segment := chi.URLParam(r, "segment")
	if !validSegment(segment) {
		respond.Error(w, http.StatusBadRequest, "INVALID_SEGMENT", "segment must be a player slug or 'master'")
		return
	}
	keys, err := h.loader.Store().List(r.Context(), segment+"/")
	if err != nil {
		respond.StorageError(w, "Failed to list tables", err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"segment": segment,
		"keys":    keys,
	})
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func parseStage(s, segment string) (storage.Stage, bool) {
	switch storage.Stage(s) {
	case "":
		if segment == storage.MasterSegment {
			return storage.StageTransformed, true
		}
		return storage.StageAggregated, true
	case storage.StageRaw, storage.StageTransformed, storage.StageAggregated:
		return storage.Stage(s), true
	}
	return "", false
}
