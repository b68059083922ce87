package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Graph metrics
	GraphPoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "routegraph_pool_count",
		Help: "Number of distinct pools in the live routing graph",
	})

	GraphTokenCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "routegraph_token_count",
		Help: "Number of tokens (nodes) in the live routing graph",
	})

	GraphBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routegraph_graph_builds_total",
		Help: "Total number of routing graph instances built",
	})

	GraphBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routegraph_graph_build_duration_seconds",
		Help:    "Duration of a full graph build including pool fetch",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	DroppedPools = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routegraph_dropped_pools_total",
		Help: "Pool addresses dropped during fetch-based graph construction because no pool data resolved",
	})

	// Route search metrics
	RouteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routegraph_route_cache_hits_total",
		Help: "Total number of queried pairs served from the route cache",
	})

	RouteCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routegraph_route_cache_misses_total",
		Help: "Total number of queried pairs that required walk computation",
	})

	RouteCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "routegraph_route_cache_size",
		Help: "Number of cached directed pairs in the live graph",
	})

	RouteSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routegraph_route_search_duration_seconds",
		Help:    "Duration of a batched route search",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	RoutesFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routegraph_routes_found",
		Help:    "Number of routes found per queried pair",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
	})

	// Pool fetch metrics
	PoolFetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routegraph_pool_fetch_requests_total",
			Help: "Total number of getMultipleAccounts calls for pool data",
		},
		[]string{"status"},
	)

	PoolFetchCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routegraph_pool_fetch_cache_hits_total",
		Help: "Total number of pool lookups served from the decoded pool cache",
	})

	PoolDecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routegraph_pool_decode_failures_total",
		Help: "Total number of pool accounts that failed to decode",
	})

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "routegraph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routegraph_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
