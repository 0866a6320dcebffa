package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CountsAndExposes(t *testing.T) {
	t.Parallel()

	m := NewManager(WithNamespace("test"))
	m.IncResolveAttempt("mirror", "hit")
	m.IncResolveAttempt("mirror", "hit")
	m.IncLeaderboardBuild("ranked", "scrape")
	m.ObserveUpstream("brawlstars", "ok", 120*time.Millisecond)

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.resolveAttempts.WithLabelValues("mirror", "hit")), 0.0001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.leaderboardBuilds.WithLabelValues("ranked", "scrape")), 0.0001)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "test_ranked_resolve_attempts_total"))
	assert.True(t, strings.Contains(body, "test_upstream_request_duration_seconds"))
}

func TestManager_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Manager
	assert.NotPanics(t, func() {
		m.IncResolveAttempt("scrape", "miss")
		m.ObserveHTTPRequest("/healthz", http.MethodGet, 200, time.Millisecond)
		m.SetCircuitState("brawlstars", 2)
		m.IncStoreSkip("player_upsert")
	})
	assert.Nil(t, m.Registry())
}
