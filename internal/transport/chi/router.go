package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// SearchBasePath is where the search routes are mounted.
const SearchBasePath = "/api/v3/search"

// RouterConfig configures the HTTP router.
type RouterConfig struct {
	APIKeys []string
	// Cache enables response caching on the search routes when non-nil.
	Cache ResponseCache
}

// NewRouter wires middleware and routes around the server.
func NewRouter(s *Server, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(middleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(SearchBasePath, func(r chi.Router) {
		if cfg.Cache != nil {
			r.Use(CacheMiddleware(cfg.Cache))
		}
		r.Get("/", s.Search)
		r.Get("/albums", s.SearchAlbums)
		r.Get("/songs", s.SearchSongs)
		r.Get("/artists", s.SearchArtists)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
	})

	return r
}
