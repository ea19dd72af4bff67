package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds every metric the service exports.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Naming engine
	NamingRequestsTotal  CounterVec
	NamingDuration       HistogramVec
	NamingPhaseDuration  HistogramVec
	NamingRulesFired     CounterVec
	NamingConflictsTotal CounterVec
	NamingConfidence     HistogramVec
	NamingBatchSize      HistogramVec

	// Cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Infrastructure
	DBQueryDuration      HistogramVec
	EventsPublishedTotal CounterVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultNamingDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultDBDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultConfidenceBuckets     = []float64{.5, .6, .7, .8, .9, .95, .99, 1}
	DefaultBatchSizeBuckets      = []float64{1, 2, 5, 10, 20, 50, 100}
)

// NewAppMetrics registers all metrics with the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Naming engine
	m.NamingRequestsTotal = collector.RegisterCounter("naming_requests_total", "Name computations", "method", "status")
	m.NamingDuration = collector.RegisterHistogram("naming_duration_seconds", "End-to-end name computation duration", DefaultNamingDurationBuckets, "method")
	m.NamingPhaseDuration = collector.RegisterHistogram("naming_phase_duration_seconds", "Per-phase pipeline duration", DefaultNamingDurationBuckets, "phase")
	m.NamingRulesFired = collector.RegisterCounter("naming_rules_fired_total", "Rules fired", "phase")
	m.NamingConflictsTotal = collector.RegisterCounter("naming_conflicts_total", "Conflicts recorded during naming", "type", "phase")
	m.NamingConfidence = collector.RegisterHistogram("naming_confidence", "Confidence of computed names", DefaultConfidenceBuckets, "method")
	m.NamingBatchSize = collector.RegisterHistogram("naming_batch_size", "Molecules per batch request", DefaultBatchSizeBuckets)

	// Cache
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	// Infrastructure
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Events published to the broker", "topic", "status")

	// System health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording helpers
// ─────────────────────────────────────────────────────────────────────────────

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordNaming records the outcome of one name computation.  Method is the
// selected nomenclature method, status is "ok" or "error".
func RecordNaming(metrics *AppMetrics, method, status string, duration time.Duration, confidence float64) {
	metrics.NamingRequestsTotal.WithLabelValues(method, status).Inc()
	metrics.NamingDuration.WithLabelValues(method).Observe(duration.Seconds())
	if status == "ok" {
		metrics.NamingConfidence.WithLabelValues(method).Observe(confidence)
	}
}

func RecordPhase(metrics *AppMetrics, phase string, duration time.Duration, rulesFired int) {
	metrics.NamingPhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
	if rulesFired > 0 {
		metrics.NamingRulesFired.WithLabelValues(phase).Add(float64(rulesFired))
	}
}

func RecordConflict(metrics *AppMetrics, conflictType, phase string) {
	metrics.NamingConflictsTotal.WithLabelValues(conflictType, phase).Inc()
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordDBQuery(metrics *AppMetrics, operation string, duration time.Duration, err error) {
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("database", "query_error").Inc()
	}
}

func RecordEventPublished(metrics *AppMetrics, topic string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EventsPublishedTotal.WithLabelValues(topic, status).Inc()
}

func RecordError(metrics *AppMetrics, component, errorType string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
