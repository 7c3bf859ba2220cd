package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/ProductSearchGo/internal/service"
	"github.com/utafrali/ProductSearchGo/pkg/health"
	"github.com/utafrali/ProductSearchGo/pkg/middleware"
)

// RouterConfig carries the environment-dependent pieces of the router.
type RouterConfig struct {
	Environment    string
	AllowedOrigins []string
}

// NewRouter creates a chi router with all search service routes registered.
func NewRouter(
	searchService *service.SearchService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = cfg.Environment
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowedOrigins = cfg.AllowedOrigins
	}

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("search"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("search"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Search API endpoints
	searchHandler := NewSearchHandler(searchService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", searchHandler.Health)
		r.Get("/search/suggest", searchHandler.Suggest)

		// The filter catalog changes rarely; let clients cache it briefly.
		r.With(middleware.CacheControl(60)).Get("/search/filters", searchHandler.Filters)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/search", searchHandler.Search)
			r.Post("/seed", searchHandler.Seed)
		})
	})

	return r
}
