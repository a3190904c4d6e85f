// Package metrics provides Prometheus metrics for the observation record service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	scoreBuckets     []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Store
	storeOps      *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
	storeRecords  *prometheus.GaugeVec
	storeFailures *prometheus.CounterVec

	// Observations
	observationsSaved  *prometheus.CounterVec
	observationScores  prometheus.Histogram
	observationLevels  *prometheus.CounterVec
	validationFailures *prometheus.CounterVec

	// Backup and export
	backupExports   prometheus.Counter
	backupImports   *prometheus.CounterVec
	backupImported  *prometheus.CounterVec
	backupClears    prometheus.Counter
	documentExports *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager with one built from opts on a fresh
// registry. Call it once at startup, before anything records metrics.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "architect",
		subsystem:        "records",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		scoreBuckets:     []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4},
		constLabels:      prometheus.Labels{},
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
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.storeOps = auto.NewCounterVec(
		m.counterOpts("store_operations_total", "Store operations by collection, operation and result"),
		[]string{"collection", "op", "result"},
	)
	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_operation_latency_milliseconds",
		Help:        "Store operation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"collection", "op"})
	m.storeRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_records",
		Help:        "Number of records held per collection",
		ConstLabels: m.constLabels,
	}, []string{"collection"})
	m.storeFailures = auto.NewCounterVec(
		m.counterOpts("store_failures_total", "Store failures by kind"),
		[]string{"kind"},
	)

	m.observationsSaved = auto.NewCounterVec(
		m.counterOpts("observations_saved_total", "Observations saved, split into created and updated"),
		[]string{"mode"},
	)
	m.observationScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "observation_overall_score",
		Help:        "Distribution of overall scores of saved observations",
		Buckets:     m.scoreBuckets,
		ConstLabels: m.constLabels,
	})
	m.observationLevels = auto.NewCounterVec(
		m.counterOpts("observation_levels_total", "Saved observations by performance level"),
		[]string{"level"},
	)
	m.validationFailures = auto.NewCounterVec(
		m.counterOpts("validation_failures_total", "Rejected saves by entity"),
		[]string{"entity"},
	)

	m.backupExports = auto.NewCounter(m.counterOpts("backup_exports_total", "Backup documents produced"))
	m.backupImports = auto.NewCounterVec(
		m.counterOpts("backup_imports_total", "Backup imports by result"),
		[]string{"result"},
	)
	m.backupImported = auto.NewCounterVec(
		m.counterOpts("backup_imported_records_total", "Records appended by backup imports"),
		[]string{"collection"},
	)
	m.backupClears = auto.NewCounter(m.counterOpts("clear_all_total", "Number of full data clears"))
	m.documentExports = auto.NewCounterVec(
		m.counterOpts("document_exports_total", "Generated export documents by format"),
		[]string{"format"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
}

// Store metrics.

// RecordStoreOperation counts one store call and its latency.
func RecordStoreOperation(collection, op, result string, latencyMs float64) {
	globalManager.storeOps.WithLabelValues(collection, op, result).Inc()
	globalManager.storeLatency.WithLabelValues(collection, op).Observe(latencyMs)
}

// UpdateStoreRecords sets the record count of a collection.
func UpdateStoreRecords(collection string, count int) {
	globalManager.storeRecords.WithLabelValues(collection).Set(float64(count))
}

// RecordStoreFailure counts a failure such as "constraint" or "unavailable".
func RecordStoreFailure(kind string) {
	globalManager.storeFailures.WithLabelValues(kind).Inc()
}

// Observation metrics.

// RecordObservationSaved counts a save and observes the derived score.
func RecordObservationSaved(created bool, score float64, level string) {
	mode := "updated"
	if created {
		mode = "created"
	}
	globalManager.observationsSaved.WithLabelValues(mode).Inc()
	globalManager.observationScores.Observe(score)
	globalManager.observationLevels.WithLabelValues(level).Inc()
}

// RecordValidationFailure counts a rejected save.
func RecordValidationFailure(entity string) {
	globalManager.validationFailures.WithLabelValues(entity).Inc()
}

// Backup metrics.

// RecordBackupExport counts a produced backup document.
func RecordBackupExport() {
	globalManager.backupExports.Inc()
}

// RecordBackupImport counts an import attempt and the records it appended.
func RecordBackupImport(result string, teachers, observations, meetings int) {
	globalManager.backupImports.WithLabelValues(result).Inc()
	globalManager.backupImported.WithLabelValues("teachers").Add(float64(teachers))
	globalManager.backupImported.WithLabelValues("observations").Add(float64(observations))
	globalManager.backupImported.WithLabelValues("meetings").Add(float64(meetings))
}

// RecordClearAll counts a full data clear.
func RecordClearAll() {
	globalManager.backupClears.Inc()
}

// RecordDocumentExport counts a generated csv, xlsx or pdf document.
func RecordDocumentExport(format string) {
	globalManager.documentExports.WithLabelValues(format).Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
