// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the command dispatcher.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors used across the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
	dispatchTotal *prometheus.CounterVec
	liveSessions  prometheus.GaugeFunc
}

// New creates a metrics set on its own registry. sessionCount is sampled for
// the live-sessions gauge; pass nil to skip it.
func New(sessionCount func() int) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tradecore_http_requests_total",
			Help: "HTTP requests by method, path pattern, and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tradecore_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tradecore_http_in_flight_requests",
			Help: "Requests currently being served.",
		}),
		dispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tradecore_dispatch_total",
			Help: "Command dispatches by app, command, and outcome.",
		}, []string{"app", "command", "outcome"}),
	}

	if sessionCount != nil {
		m.liveSessions = factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "tradecore_sessions",
			Help: "Sessions currently stored.",
		}, func() float64 { return float64(sessionCount()) })
	}

	return m
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDispatch records one command dispatch outcome.
func (m *Metrics) RecordDispatch(app, command, outcome string) {
	m.dispatchTotal.WithLabelValues(app, command, outcome).Inc()
}

// IncrementInFlight bumps the in-flight gauge.
func (m *Metrics) IncrementInFlight() { m.httpInFlight.Inc() }

// DecrementInFlight lowers the in-flight gauge.
func (m *Metrics) DecrementInFlight() { m.httpInFlight.Dec() }

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
