// Package api wires the HTTP router: middleware, health checks, table reads
// and aggregate runs.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/cricstats/internal/api/handler"
	"github.com/albapepper/cricstats/internal/cache"
	"github.com/albapepper/cricstats/internal/config"
	"github.com/albapepper/cricstats/internal/storage"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(loader *storage.Loader, runner handler.Runner, appCache *cache.Cache, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(loader, runner, appCache, cfg)

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/storage", h.HealthCheckStorage)
		r.Get("/cache", h.HealthCheckCache)
	})

	if !cfg.IsProduction() {
		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tables/{segment}", h.ListTables)
		r.Get("/tables/{segment}/{category}", h.GetTable)
		r.Post("/aggregate/{player}", h.PostAggregate)
	})

	return r
}
