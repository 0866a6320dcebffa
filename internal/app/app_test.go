package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/brawl-tracker/internal/config"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/riskibarqy/brawl-tracker/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inMemoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "brawl-tracker-api",
		HTTPAddr:           ":0",
		CORSAllowedOrigins: []string{"*"},
		MetricsEnabled:     true,
		CacheEnabled:       true,
		BrawlAPIBaseURL:    "http://127.0.0.1:1/v1",
		BrawlifyBaseURL:    "http://127.0.0.1:1/v1",
	}
}

func TestNewHTTPServer_InMemory(t *testing.T) {
	t.Parallel()

	srv, closeFn, err := NewHTTPServer(inMemoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "brawl_tracker_http_requests_total")

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/meta/tiers", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewHTTPServer_AdminRoutesDisabledWithoutToken(t *testing.T) {
	t.Parallel()

	srv, closeFn, err := NewHTTPServer(inMemoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/meta/tiers/some-id", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	cfg := inMemoryConfig()
	cfg.HTTPAddr = ""
	_, _, err := NewHTTPServer(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestCircuitStateListener_ExportsGauge(t *testing.T) {
	t.Parallel()

	m := metrics.NewManager()
	listener := circuitStateListener(logging.NewNop(), m)
	listener("mirror:m1.example.test", resilience.CircuitStateClosed, resilience.CircuitStateOpen)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var found bool
	for _, family := range families {
		if family.GetName() != "brawl_tracker_upstream_circuit_state" {
			continue
		}
		for _, metric := range family.GetMetric() {
			found = true
			assert.Equal(t, float64(2), metric.GetGauge().GetValue())
		}
	}
	assert.True(t, found, "circuit state gauge not exported")
}

func TestCircuitStateValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, circuitStateValue(resilience.CircuitStateClosed))
	assert.Equal(t, 1, circuitStateValue(resilience.CircuitStateHalfOpen))
	assert.Equal(t, 2, circuitStateValue(resilience.CircuitStateOpen))
}
