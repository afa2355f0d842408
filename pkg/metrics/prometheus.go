// Package metrics provides Prometheus metrics for the flagrank service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the flagrank service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Match lifecycle
	matchesCreated   prometheus.Counter
	matchesResolved  *prometheus.CounterVec
	matchesExpired   prometheus.Counter
	matchRejections  *prometheus.CounterVec
	pendingMatches   prometheus.Gauge
	ratingChangeSize prometheus.Histogram

	// Item store
	itemsTotal        prometheus.Gauge
	gamesTotal        prometheus.Gauge
	storeUpdateMillis prometheus.Histogram

	// Snapshots
	snapshotDuration *prometheus.HistogramVec
	snapshotTotal    *prometheus.CounterVec
	snapshotLastUnix prometheus.Gauge
	snapshotBytes    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "flagrank",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.matchesCreated = auto.NewCounter(m.counterOpts(
		"matches_created_total", "Total number of comparison pairs issued"))
	m.matchesResolved = auto.NewCounterVec(m.counterOpts(
		"matches_resolved_total", "Total number of resolved matches by outcome"),
		[]string{"outcome"})
	m.matchesExpired = auto.NewCounter(m.counterOpts(
		"matches_expired_total", "Total number of pending matches dropped by expiry or capacity"))
	m.matchRejections = auto.NewCounterVec(m.counterOpts(
		"match_rejections_total", "Total number of rejected match operations by reason"),
		[]string{"reason"})
	m.pendingMatches = auto.NewGauge(m.gaugeOpts(
		"pending_matches", "Current number of issued but unresolved matches"))
	m.ratingChangeSize = auto.NewHistogram(m.histogramOpts(
		"rating_change_points", "Absolute rating change applied to one side of a match",
		[]float64{1, 2, 5, 10, 20, 40, 80, 125, 250}))

	m.itemsTotal = auto.NewGauge(m.gaugeOpts(
		"items_total", "Number of rateable items in the store"))
	m.gamesTotal = auto.NewGauge(m.gaugeOpts(
		"games_total", "Sum of wins, losses and draws across all items"))
	m.storeUpdateMillis = auto.NewHistogram(m.histogramOpts(
		"store_update_latency_milliseconds", "Item store outcome application latency in milliseconds",
		m.histogramBuckets))

	m.snapshotDuration = auto.NewHistogramVec(m.histogramOpts(
		"snapshot_duration_milliseconds", "Snapshot save/load duration in milliseconds",
		m.histogramBuckets), []string{"op"})
	m.snapshotTotal = auto.NewCounterVec(m.counterOpts(
		"snapshot_total", "Snapshot operations by op and result"),
		[]string{"op", "result"})
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts(
		"snapshot_last_unix", "Unix timestamp of the last successful snapshot save"))
	m.snapshotBytes = auto.NewGauge(m.gaugeOpts(
		"snapshot_bytes", "Size of the last saved snapshot in bytes"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Match lifecycle.

// RecordMatchCreated increments the issued matches counter.
func RecordMatchCreated() {
	globalManager.matchesCreated.Inc()
}

// RecordMatchResolved increments the resolved counter for an outcome label.
func RecordMatchResolved(outcome string) {
	globalManager.matchesResolved.WithLabelValues(outcome).Inc()
}

// RecordMatchesExpired adds n dropped pending matches.
func RecordMatchesExpired(n int) {
	if n > 0 {
		globalManager.matchesExpired.Add(float64(n))
	}
}

// RecordMatchRejection counts a rejected create/resolve by reason.
func RecordMatchRejection(reason string) {
	globalManager.matchRejections.WithLabelValues(reason).Inc()
}

// UpdatePendingMatches sets the pending match gauge.
func UpdatePendingMatches(n int) {
	globalManager.pendingMatches.Set(float64(n))
}

// RecordRatingChange observes the absolute size of one rating delta.
func RecordRatingChange(points float64) {
	if points < 0 {
		points = -points
	}
	globalManager.ratingChangeSize.Observe(points)
}

// Item store.

// UpdateItemsTotal sets the number of items.
func UpdateItemsTotal(n int) {
	globalManager.itemsTotal.Set(float64(n))
}

// UpdateGamesTotal sets the aggregate game count.
func UpdateGamesTotal(n int) {
	globalManager.gamesTotal.Set(float64(n))
}

// RecordStoreUpdateLatency records outcome application latency.
func RecordStoreUpdateLatency(latencyMs float64) {
	globalManager.storeUpdateMillis.Observe(latencyMs)
}

// Snapshots.

// RecordSnapshot records a snapshot operation ("save" or "load").
func RecordSnapshot(op string, ok bool, latencyMs float64) {
	result := "ok"
	if !ok {
		result = "error"
	}
	globalManager.snapshotTotal.WithLabelValues(op, result).Inc()
	globalManager.snapshotDuration.WithLabelValues(op).Observe(latencyMs)
}

// UpdateSnapshotSaved marks a successful save of size bytes at unix time ts.
func UpdateSnapshotSaved(ts float64, size int) {
	globalManager.snapshotLastUnix.Set(ts)
	globalManager.snapshotBytes.Set(float64(size))
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
