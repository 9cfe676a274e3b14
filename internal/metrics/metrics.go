package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "concert_dashboard"

// Metrics holds the dashboard collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	editorActions    *prometheus.CounterVec
	pageRenders      *prometheus.CounterVec
	sessionsOpened   prometheus.Counter
	sessionsDropped  prometheus.Counter
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests sent to the events API by operation and status code (0 = transport error).",
	}, []string{"operation", "code"})
	m.upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of events API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	m.editorActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "editor_actions_total",
		Help:      "Editor commands applied to working copies by action and result.",
	}, []string{"action", "result"})
	m.pageRenders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_renders_total",
		Help:      "Rendered HTML pages by template.",
	}, []string{"page"})
	m.sessionsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "editing_sessions_opened_total",
		Help:      "Editing sessions opened since start.",
	})
	m.sessionsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "editing_sessions_discarded_total",
		Help:      "Editing sessions discarded by the user before expiry.",
	})

	m.registry.MustRegister(
		m.upstreamRequests,
		m.upstreamDuration,
		m.editorActions,
		m.pageRenders,
		m.sessionsOpened,
		m.sessionsDropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpstream records one events API request
func (m *Metrics) ObserveUpstream(operation string, statusCode int, elapsed time.Duration) {
	m.upstreamRequests.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
	m.upstreamDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// EditorAction records one applied or rejected editor command
func (m *Metrics) EditorAction(action, result string) {
	m.editorActions.WithLabelValues(action, result).Inc()
}

// PageRendered counts an HTML render
func (m *Metrics) PageRendered(page string) {
	m.pageRenders.WithLabelValues(page).Inc()
}

// SessionOpened counts a new editing session
func (m *Metrics) SessionOpened() {
	m.sessionsOpened.Inc()
}

// SessionDiscarded counts a working copy dropped by the user
func (m *Metrics) SessionDiscarded() {
	m.sessionsDropped.Inc()
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
