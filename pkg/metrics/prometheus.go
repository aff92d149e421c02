// Package metrics provides Prometheus metrics for the skillrank service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the skillrank service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Core business metrics
	recomputesTotal   prometheus.Counter
	recomputeDuration prometheus.Histogram
	tierHits          *prometheus.CounterVec
	suggestionsTotal  prometheus.Counter
	predictionsTotal  prometheus.Counter

	// Cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheStale  prometheus.Counter

	// Operational health
	venuesTracked    prometheus.Gauge
	refreshQueueSize prometheus.Gauge

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillrank",
		subsystem:        "core",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recomputesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recomputes_total",
		Help:      "Total number of leaderboard recomputations",
	})
	m.recomputeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_duration_milliseconds",
		Help:      "Histogram of leaderboard recompute duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.tierHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "outcome_tier_hits_total",
		Help:      "Outcome loads by the tier that satisfied them (primary/derived/heuristic/none)",
	}, []string{"tier"})
	m.suggestionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "suggestions_total",
		Help:      "Total number of opponent suggestion requests served",
	})
	m.predictionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of outcome predictions served",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Leaderboard cache lookups that returned a fresh snapshot",
	})
	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Leaderboard cache lookups with no stored snapshot",
	})
	m.cacheStale = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_stale_total",
		Help:      "Leaderboard cache lookups that returned a snapshot past its freshness window",
	})

	m.venuesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "venues_tracked",
		Help:      "Number of venues with a stored leaderboard snapshot",
	})
	m.refreshQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_queue_size",
		Help:      "Venues currently queued for background refresh",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP error responses by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})
}

// RecordRecompute records one leaderboard recompute and its duration.
func RecordRecompute(durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.recomputesTotal.Inc()
		globalManager.recomputeDuration.Observe(durationMs)
	}
}

// RecordTierHit records which outcome tier satisfied a load.
func RecordTierHit(tier string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.tierHits.WithLabelValues(tier).Inc()
	}
}

// RecordSuggestionServed increments the suggestion request counter.
func RecordSuggestionServed() {
	if globalManager != nil && globalManager.enabled {
		globalManager.suggestionsTotal.Inc()
	}
}

// RecordPredictionServed increments the prediction counter.
func RecordPredictionServed() {
	if globalManager != nil && globalManager.enabled {
		globalManager.predictionsTotal.Inc()
	}
}

// RecordCacheHit records a fresh cache lookup.
func RecordCacheHit() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss records a lookup with no stored snapshot.
func RecordCacheMiss() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

// RecordCacheStale records a lookup that found only a stale snapshot.
func RecordCacheStale() {
	if globalManager != nil && globalManager.enabled {
		globalManager.cacheStale.Inc()
	}
}

// UpdateVenuesTracked sets the venues-with-snapshot gauge.
func UpdateVenuesTracked(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.venuesTracked.Set(float64(count))
	}
}

// UpdateRefreshQueueSize sets the background refresh queue gauge.
func UpdateRefreshQueueSize(size int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.refreshQueueSize.Set(float64(size))
	}
}

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint records an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// GetRegistry returns the custom registry serving /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
