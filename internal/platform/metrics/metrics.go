// Package metrics exposes the Prometheus instruments of the tracker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "brawl_tracker"

// Manager owns one registry and every instrument registered on it. A nil *Manager is
// valid and records nothing.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	circuitState     *prometheus.GaugeVec

	resolveAttempts   *prometheus.CounterVec
	leaderboardBuilds *prometheus.CounterVec
	trendStoreErrors  *prometheus.CounterVec
	storeSkips        *prometheus.CounterVec
}

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route and status.",
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Outbound requests by client and result class.",
	}, []string{"client", "result"})
	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Outbound request latency.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"client"})
	m.circuitState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "circuit_state",
		Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
	}, []string{"client"})

	m.resolveAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ranked",
		Name:      "resolve_attempts_total",
		Help:      "Ranked snapshot source attempts by source and outcome.",
	}, []string{"source", "outcome"})
	m.leaderboardBuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "leaderboard",
		Name:      "builds_total",
		Help:      "Leaderboard builds by type and the source that produced them.",
	}, []string{"type", "source"})
	m.trendStoreErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "leaderboard",
		Name:      "trend_store_errors_total",
		Help:      "Trend computations that fell back to an empty map.",
	}, []string{"type"})
	m.storeSkips = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "skipped_writes_total",
		Help:      "Best-effort store operations skipped after an error or timeout.",
	}, []string{"operation"})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Manager) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Manager) ObserveUpstream(client, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(client, result).Inc()
	m.upstreamLatency.WithLabelValues(client).Observe(elapsed.Seconds())
}

func (m *Manager) SetCircuitState(client string, state int) {
	if m == nil {
		return
	}
	m.circuitState.WithLabelValues(client).Set(float64(state))
}

func (m *Manager) IncResolveAttempt(source, outcome string) {
	if m == nil {
		return
	}
	m.resolveAttempts.WithLabelValues(source, outcome).Inc()
}

func (m *Manager) IncLeaderboardBuild(boardType, source string) {
	if m == nil {
		return
	}
	m.leaderboardBuilds.WithLabelValues(boardType, source).Inc()
}

func (m *Manager) IncTrendStoreError(boardType string) {
	if m == nil {
		return
	}
	m.trendStoreErrors.WithLabelValues(boardType).Inc()
}

func (m *Manager) IncStoreSkip(operation string) {
	if m == nil {
		return
	}
	m.storeSkips.WithLabelValues(operation).Inc()
}
