// Package prometheus exposes the engine's operational metrics through a
// dedicated registry, keeping the default global registry untouched so
// tests can construct isolated Metrics instances.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace prefixes every metric emitted by the engine.
const namespace = "rephind"

// Metrics holds all engine metrics.  One instance is created at startup and
// injected into the HTTP layer and the application services.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Retrieval
	SearchDuration    *prometheus.HistogramVec
	SearchResultCount prometheus.Histogram
	SearchCacheHits   prometheus.Counter
	SearchCacheMisses prometheus.Counter

	// Encoder
	EncodeDuration prometheus.Histogram
	EncodeErrors   prometheus.Counter

	// Index
	IndexBuildDuration prometheus.Histogram
	IndexSize          prometheus.Gauge
	IndexSnapshotLoads *prometheus.CounterVec

	// Extraction / comparison
	ExtractionsTotal  prometheus.Counter
	ExtractedKeys     prometheus.Histogram
	ComparisonsTotal  prometheus.Counter
}

// NewMetrics registers all engine metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	m.SearchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "End-to-end similarity search duration.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"outcome"})

	m.SearchResultCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_result_count",
		Help:      "Number of results returned per search.",
		Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
	})

	m.SearchCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_hits_total",
		Help:      "Search result cache hits.",
	})

	m.SearchCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_cache_misses_total",
		Help:      "Search result cache misses.",
	})

	m.EncodeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "encode_duration_seconds",
		Help:      "Single-text embedding encode duration.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
	})

	m.EncodeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "encode_errors_total",
		Help:      "Embedding encode failures.",
	})

	m.IndexBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "index_build_duration_seconds",
		Help:      "Full corpus index build duration.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	m.IndexSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_vectors",
		Help:      "Number of vectors in the currently served index.",
	})

	m.IndexSnapshotLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "index_snapshot_loads_total",
		Help:      "Index snapshot load attempts by outcome (loaded, hash_mismatch, corrupt, missing).",
	}, []string{"outcome"})

	m.ExtractionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claim_extractions_total",
		Help:      "Claim attribute extraction runs.",
	})

	m.ExtractedKeys = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "claim_extracted_keys",
		Help:      "Number of attribute keys found per extraction.",
		Buckets:   []float64{0, 1, 2, 5, 10, 15, 20, 30},
	})

	m.ComparisonsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comparisons_total",
		Help:      "Claim comparison runs.",
	})

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SearchDuration,
		m.SearchResultCount,
		m.SearchCacheHits,
		m.SearchCacheMisses,
		m.EncodeDuration,
		m.EncodeErrors,
		m.IndexBuildDuration,
		m.IndexSize,
		m.IndexSnapshotLoads,
		m.ExtractionsTotal,
		m.ExtractedKeys,
		m.ComparisonsTotal,
	)

	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
