package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/cricstats/internal/api/respond"
	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
)

// PostAggregate merges a player's transformed tables into the masters.
// @Summary Aggregate a player
// @Description Runs the merge-upsert for the selected categories. Categories fail independently; the response is 200 when all succeed and 207 when some failed. Runs targeting the same master are serialized.
// @Tags aggregate
// @Produce json
// @Param player path string true "Player name or slug"
// @Param stat query string false "Category or all" default(all)
// @Param scope query string false "Aggregate scope" Enums(master, player) default(master)
// @Success 200 {object} respond.AggregateResponse
// @Success 207 {object} respond.AggregateResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /aggregate/{player} [post]
func (h *Handler) PostAggregate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "player")
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "MISSING_PLAYER", "player is required")
		return
	}
	stat := r.URL.Query().Get("stat")
	if stat == "" {
		stat = stats.SelectAll
	}
	cats, err := stats.ParseSelector(stat)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "INVALID_STAT", err.Error())
		return
	}
	scope, err := storage.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "INVALID_SCOPE", err.Error())
		return
	}

	p, err := h.runner.Resolve(r.Context(), name)
	if err != nil {
		respond.ErrorDetail(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "No stored data for player", err.Error())
		return
	}

	res := h.runner.Aggregate(r.Context(), p, cats, scope)
	segment := storage.TargetKey(scope, p.Slug, stats.PersonalInfo).Segment
	h.cache.InvalidatePrefix(tableCachePrefix + segment + "/")

	respond.Aggregate(w, res)
}
