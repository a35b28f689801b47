package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "legalassist"

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the Prometheus instruments for pipeline runs and the HTTP
// surface. Each Metrics owns its registry so tests can create fresh ones.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	runsActive      prometheus.Gauge
	stageTotal      *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	chunksTotal     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	httpTotal       *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	providerHealthy *prometheus.GaugeVec
}

// NewMetrics creates and registers all instruments on a new registry,
// together with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by terminal state",
		}, []string{"state"}),
		runsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_active",
			Help:      "Pipeline runs currently in progress",
		}),
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_total",
			Help:      "Pipeline stages executed by outcome",
		}, []string{"stage", "status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"stage"}),
		chunksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_chunks_total",
			Help:      "Audio chunks transcribed by outcome",
		}, []string{"status"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors by component and error code",
		}, []string{"component", "error_code"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		providerHealthy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_healthy",
			Help:      "Provider health from the last probe (0=unavailable, 1=healthy)",
		}, []string{"provider"}),
	}

	reg.MustRegister(
		m.runsTotal, m.runsActive, m.stageTotal, m.stageDuration, m.chunksTotal,
		m.errorsTotal, m.httpTotal, m.httpDuration, m.providerHealthy,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RunStarted increments the active run gauge.
func (m *Metrics) RunStarted() {
	m.runsActive.Inc()
}

// RunFinished decrements the active run gauge and counts the terminal state.
func (m *Metrics) RunFinished(state string) {
	m.runsActive.Dec()
	m.runsTotal.WithLabelValues(state).Inc()
}

// ObserveStage records one stage execution.
func (m *Metrics) ObserveStage(stage string, err error, d time.Duration) {
	m.stageTotal.WithLabelValues(stage, statusOf(err)).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordChunk counts one transcribed chunk.
func (m *Metrics) RecordChunk(err error) {
	m.chunksTotal.WithLabelValues(statusOf(err)).Inc()
}

// RecordError counts an error by component and code.
func (m *Metrics) RecordError(component, code string) {
	m.errorsTotal.WithLabelValues(component, code).Inc()
}

// RecordHTTP records a completed HTTP request.
func (m *Metrics) RecordHTTP(method, route string, code int, d time.Duration) {
	m.httpTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetProviderHealthy records the latest probe result for a provider.
func (m *Metrics) SetProviderHealthy(name string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	m.providerHealthy.WithLabelValues(name).Set(v)
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
