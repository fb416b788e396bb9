package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lifetrack"

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	startTime time.Time
	registry  *prometheus.Registry

	intents       *prometheus.CounterVec
	llmRequests   *prometheus.CounterVec
	llmDuration   prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	remindersSent prometheus.Counter
	wsConnections prometheus.Gauge
	configReloads prometheus.Counter
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}

func New() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
		registry:  prometheus.NewRegistry(),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Handled messages by intent kind and the component that classified them.",
		}, []string{"kind", "source"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Language model calls by outcome.",
		}, []string{"outcome"}),
		llmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Latency of language model generate calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Event reminders delivered to at least one notifier.",
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Open websocket connections.",
		}),
		configReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_reloads_total",
			Help:      "Successful configuration file reloads.",
		}),
	}

	m.registry.MustRegister(
		m.intents,
		m.llmRequests,
		m.llmDuration,
		m.httpRequests,
		m.remindersSent,
		m.wsConnections,
		m.configReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) RecordIntent(kind, source string) {
	m.intents.WithLabelValues(kind, source).Inc()
}

// RecordLLMRequest counts a generate call; outcome is "ok", "error", "open" or "limited".
func (m *Metrics) RecordLLMRequest(outcome string, d time.Duration) {
	m.llmRequests.WithLabelValues(outcome).Inc()
	if outcome == "ok" || outcome == "error" {
		m.llmDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) RecordHTTPRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) RecordReminderSent() {
	m.remindersSent.Inc()
}

func (m *Metrics) RecordConfigReload() {
	m.configReloads.Inc()
}

func (m *Metrics) IncrementWSConnections() {
	m.wsConnections.Inc()
}

func (m *Metrics) DecrementWSConnections() {
	m.wsConnections.Dec()
}

func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func RecordIntent(kind, source string) {
	Default().RecordIntent(kind, source)
}

func RecordLLMRequest(outcome string, d time.Duration) {
	Default().RecordLLMRequest(outcome, d)
}

func RecordReminderSent() {
	Default().RecordReminderSent()
}
