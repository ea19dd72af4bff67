package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appnaming "github.com/turtacn/ChemNomen/internal/application/naming"
	"github.com/turtacn/ChemNomen/internal/config"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemNomen/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemNomen/internal/interfaces/http/middleware"
	"github.com/turtacn/ChemNomen/internal/nomenclature"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

func newTestRouter(t *testing.T) (http.Handler, prometheus.MetricsCollector) {
	t.Helper()

	logger := logging.NewNopLogger()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: "chemnomen",
	}, logger)
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	engine := nomenclature.NewEngine(logger)
	svc := appnaming.NewService(engine, config.EngineConfig{MaxBatchSize: 10}, logger,
		appnaming.WithMetrics(metrics))

	router := NewRouter(RouterConfig{
		NamingHandler: handlers.NewNamingHandler(svc, logger),
		HealthHandler: handlers.NewHealthHandler("test", metrics),
		Logger:        logger,
		Metrics:       metrics,
		Collector:     collector,
		RateLimit:     middleware.NewTokenBucketLimiter(100, 100, 0),
		RateCfg:       middleware.DefaultRateLimitConfig(),
		Mode:          "test",
	})
	return router, collector
}

func TestRouter_GenerateName(t *testing.T) {
	router, _ := newTestRouter(t)

	body, err := json.Marshal(handlers.NameRequest{
		Molecule: &mtypes.Molecule{
			Atoms: []mtypes.Atom{
				{ID: 0, Symbol: "C", Hydrogens: 3},
				{ID: 1, Symbol: "C", Hydrogens: 2},
				{ID: 2, Symbol: "O", Hydrogens: 1},
			},
			Bonds: []mtypes.Bond{
				{Atom1: 0, Atom2: 1, Order: mtypes.BondSingle},
				{Atom1: 1, Atom2: 2, Order: mtypes.BondSingle},
			},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/names", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	var resp struct {
		Success   bool          `json:"success"`
		Data      naming.Result `json:"data"`
		RequestID string        `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ethanol", resp.Data.Name)
	assert.Equal(t, naming.MethodSubstitutive, resp.Data.Method)
	assert.Equal(t, w.Header().Get(middleware.HeaderRequestID), resp.RequestID)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RecordsHTTPMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/names/deadbeef", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// The lookup fails with 503 (no registry configured) but is still
	// counted under its route template.
	assert.Contains(t, w.Body.String(),
		`chemnomen_http_requests_total{method="GET",path="/api/v1/names/:hash",status_code="503"} 1`)
}

func TestRouter_NotFoundEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "COMMON_005")
}
