package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveAnalysis(true, "ok", 0.2)
	m.ObserveAnalysis(false, "ok", 0.4)
	m.ObserveAnalysis(false, "ok", 0.1)
	m.UpstreamFailure("OpenWeatherMap")
	m.AdvisoryFallback("unreachable")
	m.RateLimited()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("seasonal", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyses.WithLabelValues("live", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamFailures.WithLabelValues("OpenWeatherMap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.advisoryFallbacks.WithLabelValues("unreachable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAnalysis(true, "ok", 1)
		m.UpstreamFailure("x")
		m.AdvisoryFallback("x")
		m.RateLimited()
	})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, m.WrapHandler("x", h))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	wrapped := m.WrapHandler("health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `skipper_http_requests_total{code="418",handler="health",method="get"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}

func TestMode(t *testing.T) {
	assert.Equal(t, "seasonal", Mode(true))
	assert.Equal(t, "live", Mode(false))
}
