// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skipper"

var httpBuckets = prometheus.ExponentialBuckets(0.05, 2, 8)

// Metrics is a set of collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	analyses          *prometheus.CounterVec
	analysisDuration  *prometheus.HistogramVec
	upstreamFailures  *prometheus.CounterVec
	advisoryFallbacks *prometheus.CounterVec
	rateLimited       prometheus.Counter
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New creates the collectors along with Go runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses processed, by forecast mode and outcome.",
		}, []string{"mode", "outcome"}),
		analysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent on a full analysis pass.",
			Buckets:   httpBuckets,
		}, []string{"mode"}),
		upstreamFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Failed calls to outbound providers.",
		}, []string{"provider"}),
		advisoryFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_fallbacks_total",
			Help:      "Advisories replaced by fallback text, by reason.",
		}, []string{"reason"}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Inbound requests rejected by the limiter.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Tracks the number of HTTP requests.",
		}, []string{"handler", "method", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Tracks the latencies for HTTP requests.",
			Buckets:   httpBuckets,
		}, []string{"handler", "method", "code"}),
	}
}

// Handler exposes the registry in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}


// ObserveAnalysis records a finished analysis
func (m *Metrics) ObserveAnalysis(seasonal bool, outcome string, seconds float64) {
	if m == nil {
		return
	}
	mode := Mode(seasonal)
	m.analyses.WithLabelValues(mode, outcome).Inc()
	m.analysisDuration.WithLabelValues(mode).Observe(seconds)
}

// UpstreamFailure counts a failed outbound call
func (m *Metrics) UpstreamFailure(provider string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(provider).Inc()
}

// AdvisoryFallback counts an advisory replaced by fallback text
func (m *Metrics) AdvisoryFallback(reason string) {
	if m == nil {
		return
	}
	m.advisoryFallbacks.WithLabelValues(reason).Inc()
}

// RateLimited counts a rejected inbound request
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// WrapHandler instruments a handler with request count and latency
func (m *Metrics) WrapHandler(name string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerCounter(
		m.httpRequests.MustCurryWith(labels),
		promhttp.InstrumentHandlerDuration(
			m.httpDuration.MustCurryWith(labels),
			next,
		),
	)
}

// Mode returns the label value for a forecast mode
func Mode(seasonal bool) string {
	if seasonal {
		return "seasonal"
	}
	return "live"
}
