package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// CacheHeader is set by the response cache to "HIT" or "MISS".
const CacheHeader = "X-Cache"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"route", "status", "cache"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status", "cache"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}

// Middleware records request duration and count, labelled by chi route pattern
// and by whether the response came from the response cache.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = normalizeRoute(rctx.RoutePattern())
			}
			code := strconv.Itoa(status)
			cache := cacheLabel(ww.Header().Get(CacheHeader))

			httpRequestDuration.WithLabelValues(route, code, cache).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, code, cache).Inc()
		})
	}
}

// normalizeRoute keeps label cardinality bounded to registered routes.
func normalizeRoute(pattern string) string {
	switch {
	case pattern == "":
		return "unmatched"
	case pattern == "/":
		return pattern
	default:
		return strings.TrimSuffix(pattern, "/")
	}
}

func cacheLabel(header string) string {
	switch header {
	case "HIT":
		return "hit"
	case "MISS":
		return "miss"
	default:
		return "none"
	}
}
