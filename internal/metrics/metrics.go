// Package metrics provides Prometheus metrics for the dashboard client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeBackend   = "backend_error"
	OutcomeTransport = "transport_error"
)

// Metrics holds all Prometheus metrics for the client. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec
	StaleResponses   *prometheus.CounterVec
	BackgroundParses *prometheus.CounterVec
	ParsedWeeks      prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spatialflow_requests_total",
				Help: "Foreground backend requests by capability and outcome.",
			},
			[]string{"capability", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spatialflow_request_duration_seconds",
				Help:    "Backend round-trip duration by capability.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
			},
			[]string{"capability"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spatialflow_requests_in_flight",
				Help: "Backend requests currently awaiting a response.",
			},
			[]string{"capability"},
		),
		StaleResponses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spatialflow_stale_responses_total",
				Help: "Responses dropped because a newer request of the same capability was issued.",
			},
			[]string{"capability"},
		),
		BackgroundParses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spatialflow_background_parses_total",
				Help: "Background schedule parses by outcome.",
			},
			[]string{"outcome"},
		),
		ParsedWeeks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spatialflow_parsed_weeks",
				Help: "Number of weeks in the current parsed schedule.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.InFlight)
	reg.MustRegister(m.StaleResponses)
	reg.MustRegister(m.BackgroundParses)
	reg.MustRegister(m.ParsedWeeks)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments the request counter.
func (m *Metrics) RecordRequest(capability, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(capability, outcome).Inc()
}

// ObserveDuration records a backend round trip.
func (m *Metrics) ObserveDuration(capability string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(capability).Observe(d.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement.
func (m *Metrics) TrackInFlight(capability string) func() {
	if m == nil {
		return func() {}
	}
	g := m.InFlight.WithLabelValues(capability)
	g.Inc()
	return g.Dec
}

// RecordStale counts a dropped out-of-order response.
func (m *Metrics) RecordStale(capability string) {
	if m == nil {
		return
	}
	m.StaleResponses.WithLabelValues(capability).Inc()
}

// RecordBackgroundParse counts a finished background parse.
func (m *Metrics) RecordBackgroundParse(outcome string) {
	if m == nil {
		return
	}
	m.BackgroundParses.WithLabelValues(outcome).Inc()
}

// SetParsedWeeks sets the parsed week count.
func (m *Metrics) SetParsedWeeks(n int) {
	if m == nil {
		return
	}
	m.ParsedWeeks.Set(float64(n))
}
