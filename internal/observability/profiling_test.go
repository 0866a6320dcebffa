package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/brawl-tracker/internal/config"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartProfiling_Disabled(t *testing.T) {
	t.Parallel()

	p, err := StartProfiling(config.Config{}, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p.PprofHandler())
	assert.NoError(t, p.Stop(context.Background()))
}

func TestPprofServer_ServesIndex(t *testing.T) {
	t.Parallel()

	srv := newPprofServer("127.0.0.1:0")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutine")
}

func TestProfiling_StopNil(t *testing.T) {
	t.Parallel()

	var p *Profiling
	assert.NoError(t, p.Stop(context.Background()))
}
