// Package handler provides HTTP handlers for the read and aggregate API.
// Tables are decoded from the blob store and served as JSON through the
// in-memory cache.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/albapepper/cricstats/internal/aggregate"
	"github.com/albapepper/cricstats/internal/api/respond"
	"github.com/albapepper/cricstats/internal/cache"
	"github.com/albapepper/cricstats/internal/config"
	"github.com/albapepper/cricstats/internal/player"
	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
)

// Runner resolves stored players and aggregates them. *ingest.Pipeline
// implements it.
type Runner interface {
	Resolve(ctx context.Context, name string) (player.Player, error)
	Aggregate(ctx context.Context, p player.Player, cats []stats.Category, scope storage.Scope) *aggregate.Result
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	loader *storage.Loader
	runner Runner
	cache  *cache.Cache
	cfg    *config.Config
}

// New creates a Handler with shared dependencies.
func New(loader *storage.Loader, runner Runner, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{loader: loader, runner: runner, cache: c, cfg: cfg}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and storage backend.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"name":       "Cricstats API",
		"version":    "1.0.0",
		"status":     "running",
		"docs":       "/docs",
		"storage":    h.cfg.StorageBackend,
		"categories": stats.Categories(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckStorage verifies the blob store is reachable.
// @Summary Storage health check
// @Description Pings the configured storage backend.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/storage [get]
func (h *Handler) HealthCheckStorage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.loader.Store().Ping(ctx); err != nil {
		respond.JSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"storage":   h.cfg.StorageBackend,
			"error":     "Storage check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"storage":   h.cfg.StorageBackend,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
