package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.NamingRequestsTotal)
	assert.NotNil(t, m.NamingPhaseDuration)
	assert.NotNil(t, m.NamingConflictsTotal)
	assert.NotNil(t, m.NamingConfidence)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.DBQueryDuration)
	assert.NotNil(t, m.EventsPublishedTotal)
	assert.NotNil(t, m.ErrorsTotal)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/names", 200, 100*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="POST",path="/api/v1/names",status_code="200"} 1`)
	assert.Contains(t, output, `test_unit_http_request_duration_seconds_count{method="POST",path="/api/v1/names"} 1`)
}

func TestRecordNaming(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordNaming(m, "substitutive", "ok", 2*time.Millisecond, 0.9)
	RecordNaming(m, "substitutive", "error", time.Millisecond, 0)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_naming_requests_total{method="substitutive",status="ok"} 1`)
	assert.Contains(t, output, `test_unit_naming_requests_total{method="substitutive",status="error"} 1`)
	assert.Contains(t, output, `test_unit_naming_duration_seconds_count{method="substitutive"} 2`)
	// Confidence is only observed for successful computations.
	assert.Contains(t, output, `test_unit_naming_confidence_count{method="substitutive"} 1`)
}

func TestRecordPhase(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordPhase(m, "numbering", time.Millisecond, 3)
	RecordPhase(m, "name_assembly", time.Millisecond, 0)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_naming_phase_duration_seconds_count{phase="numbering"} 1`)
	assert.Contains(t, output, `test_unit_naming_rules_fired_total{phase="numbering"} 3`)
	assert.NotContains(t, output, `test_unit_naming_rules_fired_total{phase="name_assembly"}`)
}

func TestRecordConflict(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordConflict(m, "state_inconsistency", "numbering")

	assert.Contains(t, scrapeMetrics(t, c),
		`test_unit_naming_conflicts_total{phase="numbering",type="state_inconsistency"} 1`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, "names", true)
	RecordCacheAccess(m, "names", true)
	RecordCacheAccess(m, "names", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_cache_hits_total{cache="names"} 2`)
	assert.Contains(t, output, `test_unit_cache_misses_total{cache="names"} 1`)
}

func TestRecordDBQuery(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordDBQuery(m, "save_name_record", time.Millisecond, nil)
	RecordDBQuery(m, "save_name_record", time.Millisecond, errors.New("boom"))

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_db_query_duration_seconds_count{operation="save_name_record"} 2`)
	assert.Contains(t, output, `test_unit_errors_total{component="database",error_type="query_error"} 1`)
}

func TestRecordEventPublished(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordEventPublished(m, "chemnomen.name.computed", nil)
	RecordEventPublished(m, "chemnomen.name.computed", errors.New("broker down"))

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_events_published_total{status="ok",topic="chemnomen.name.computed"} 1`)
	assert.Contains(t, output, `test_unit_events_published_total{status="error",topic="chemnomen.name.computed"} 1`)
}
