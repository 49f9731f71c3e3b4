package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for the console
type Metrics struct {
	// Outbound backend calls
	BackendRequestsTotal          *prometheus.CounterVec
	BackendRequestDurationSeconds *prometheus.HistogramVec

	// Pollers
	PollTicksTotal   *prometheus.CounterVec
	PollErrorsTotal  *prometheus.CounterVec
	ActivePollLeases *prometheus.GaugeVec

	// Console HTTP serving
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		BackendRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadpilot_backend_requests_total",
				Help: "Total number of requests issued to the outreach backend",
			},
			[]string{"domain", "method", "status"},
		),
		BackendRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadpilot_backend_request_duration_seconds",
				Help:    "Outreach backend request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"domain"},
		),
		PollTicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadpilot_poll_ticks_total",
				Help: "Total number of status poll ticks issued",
			},
			[]string{"kind"},
		),
		PollErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadpilot_poll_errors_total",
				Help: "Total number of poll ticks that failed and were skipped",
			},
			[]string{"kind"},
		),
		ActivePollLeases: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "leadpilot_active_poll_leases",
				Help: "Number of currently active polling leases",
			},
			[]string{"kind"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadpilot_http_requests_total",
				Help: "Total number of console HTTP requests",
			},
			[]string{"method", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadpilot_http_request_duration_seconds",
				Help:    "Console HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.BackendRequestsTotal,
		m.BackendRequestDurationSeconds,
		m.PollTicksTotal,
		m.PollErrorsTotal,
		m.ActivePollLeases,
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// ObserveBackendRequest records one outbound backend call
func ObserveBackendRequest(domain, method, status string, duration time.Duration) {
	m := Global()
	if m != nil {
		m.BackendRequestsTotal.WithLabelValues(domain, method, status).Inc()
		m.BackendRequestDurationSeconds.WithLabelValues(domain).Observe(duration.Seconds())
	}
}

// IncPollTick increments the poll tick counter for a watcher kind
func IncPollTick(kind string) {
	m := Global()
	if m != nil {
		m.PollTicksTotal.WithLabelValues(kind).Inc()
	}
}

// IncPollError increments the failed poll tick counter for a watcher kind
func IncPollError(kind string) {
	m := Global()
	if m != nil {
		m.PollErrorsTotal.WithLabelValues(kind).Inc()
	}
}

// IncActiveLeases increments the active lease gauge for a watcher kind
func IncActiveLeases(kind string) {
	m := Global()
	if m != nil {
		m.ActivePollLeases.WithLabelValues(kind).Inc()
	}
}

// DecActiveLeases decrements the active lease gauge for a watcher kind
func DecActiveLeases(kind string) {
	m := Global()
	if m != nil {
		m.ActivePollLeases.WithLabelValues(kind).Dec()
	}
}

// ObserveHTTPRequest records one console HTTP request
func ObserveHTTPRequest(method, status string, duration time.Duration) {
	m := Global()
	if m != nil {
		m.HTTPRequestsTotal.WithLabelValues(method, status).Inc()
		m.HTTPRequestDurationSeconds.WithLabelValues(method).Observe(duration.Seconds())
	}
}
