// Package metrics provides Prometheus metrics for the baby-names service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ingestion
	archiveBytes      prometheus.Gauge
	filesParsed       prometheus.Counter
	recordsLoaded     prometheus.Gauge
	yearsLoaded       prometheus.Gauge
	oneHitWonders     prometheus.Gauge
	fetchDuration     prometheus.Histogram
	ingestDuration    prometheus.Histogram
	ingestFailures    *prometheus.CounterVec
	snapshotLoadsLast prometheus.Gauge

	// Queries
	queryDuration    *prometheus.HistogramVec
	queryCacheHits   *prometheus.CounterVec
	queryCacheMisses *prometheus.CounterVec
	queryEmpty       *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

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
		namespace:        "babynames",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.archiveBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "archive_bytes",
		Help: "Size of the last fetched names archive in bytes",
	})
	m.filesParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "files_parsed_total",
		Help: "Total number of per-year files parsed from archives",
	})
	m.recordsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "records_loaded",
		Help: "Number of records in the current unified table",
	})
	m.yearsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "years_loaded",
		Help: "Number of distinct years in the current unified table",
	})
	m.oneHitWonders = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "one_hit_wonders",
		Help: "Number of one-hit-wonder records in the current snapshot",
	})
	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "fetch_duration_milliseconds",
		Help:    "Archive download duration in milliseconds",
		Buckets: prometheus.ExponentialBuckets(10, 2, 12),
	})
	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "ingest_duration_milliseconds",
		Help:    "Parse and normalize duration in milliseconds",
		Buckets: prometheus.ExponentialBuckets(10, 2, 12),
	})
	m.ingestFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "ingest_failures_total",
		Help: "Ingestion failures by kind (fetch, malformed_filename, malformed_record)",
	}, []string{"kind"})
	m.snapshotLoadsLast = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "snapshot_loaded_unix",
		Help: "Unix time of the last successful snapshot load",
	})

	m.queryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "query_duration_milliseconds",
		Help:    "Aggregation query duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"query"})
	m.queryCacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "query_cache_hits_total",
		Help: "Query results served from cache",
	}, []string{"query"})
	m.queryCacheMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "query_cache_misses_total",
		Help: "Query results computed from the table",
	}, []string{"query"})
	m.queryEmpty = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "query_empty_total",
		Help: "Queries that matched no records",
	}, []string{"query"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_type_total",
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_endpoint_total",
		Help: "Errors by HTTP endpoint",
	}, []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "error_latency_milliseconds",
		Help:    "Latency of failed operations in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "system_memory_bytes",
		Help: "Heap bytes allocated (holds the unified table)",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "system_goroutines",
		Help: "Number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "system_gc_pause_milliseconds",
		Help:    "Average GC pause in milliseconds",
		Buckets: m.histogramBuckets,
	})
}

// Ingestion recorders.

// UpdateArchiveBytes records the size of the fetched archive.
func UpdateArchiveBytes(n int) {
	if globalManager.enabled {
		globalManager.archiveBytes.Set(float64(n))
	}
}

// RecordFileParsed counts one per-year file parsed.
func RecordFileParsed() {
	if globalManager.enabled {
		globalManager.filesParsed.Inc()
	}
}

// UpdateSnapshot publishes the shape of a freshly loaded snapshot.
func UpdateSnapshot(records, years, oneHitWonders int) {
	if !globalManager.enabled {
		return
	}
	globalManager.recordsLoaded.Set(float64(records))
	globalManager.yearsLoaded.Set(float64(years))
	globalManager.oneHitWonders.Set(float64(oneHitWonders))
}

// MarkSnapshotLoaded stamps the time of a successful load.
func MarkSnapshotLoaded() {
	if globalManager.enabled {
		globalManager.snapshotLoadsLast.SetToCurrentTime()
	}
}

// RecordFetchDuration records archive download time.
func RecordFetchDuration(ms float64) {
	if globalManager.enabled {
		globalManager.fetchDuration.Observe(ms)
	}
}

// RecordIngestDuration records parse+normalize time.
func RecordIngestDuration(ms float64) {
	if globalManager.enabled {
		globalManager.ingestDuration.Observe(ms)
	}
}

// RecordIngestFailure counts a failed ingestion by kind.
func RecordIngestFailure(kind string) {
	if globalManager.enabled {
		globalManager.ingestFailures.WithLabelValues(kind).Inc()
	}
}

// Query recorders.

// RecordQueryDuration records how long a query took.
func RecordQueryDuration(query string, ms float64) {
	if globalManager.enabled {
		globalManager.queryDuration.WithLabelValues(query).Observe(ms)
	}
}

// RecordQueryCacheHit counts a cached query answer.
func RecordQueryCacheHit(query string) {
	if globalManager.enabled {
		globalManager.queryCacheHits.WithLabelValues(query).Inc()
	}
}

// RecordQueryCacheMiss counts a computed query answer.
func RecordQueryCacheMiss(query string) {
	if globalManager.enabled {
		globalManager.queryCacheMisses.WithLabelValues(query).Inc()
	}
}

// RecordQueryEmpty counts a query with no matching records.
func RecordQueryEmpty(query string) {
	if globalManager.enabled {
		globalManager.queryEmpty.WithLabelValues(query).Inc()
	}
}

// HTTP recorders.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// Error recorders.

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records errors by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorLatency records latency of failed operations.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if globalManager.enabled {
		globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
	}
}

// System recorders.

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount updates goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// Configure rebuilds the global manager with opts on a fresh registry.
// Call it once at startup, before any recorder runs or /metrics is served.
func Configure(opts ...Option) *Manager {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
	return globalManager
}

// GetRegistry returns the custom registry for metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Default returns the process-wide manager backing the package recorders.
func Default() *Manager {
	return globalManager
}
