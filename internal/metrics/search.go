package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "catalogsearch"

// Search Prometheus metrics.
var (
	SearchBackendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_backend_duration_seconds",
			Help:      "Search index request duration per entity kind",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind", "status"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of results returned per entity kind",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		},
		[]string{"kind"},
	)

	SearchTopResultTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_top_result_total",
			Help:      "Unified searches by kind of the top result",
		},
		[]string{"kind"}, // "album" / "song" / "artist" / "none"
	)

	SearchDroppedSongsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_dropped_songs_total",
			Help:      "Songs dropped because their album did not resolve",
		},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchBackendDuration)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchTopResultTotal)
	prometheus.MustRegister(SearchDroppedSongsTotal)
	prometheus.MustRegister(ResponseCacheTotal)
	searchMetricsRegistered = true
}
