// Package metrics defines the server's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Thank outcomes.
const (
	ThankRecorded  = "recorded"
	ThankDuplicate = "duplicate"
	ThankNotFound  = "not_found"
	ThankError     = "error"
)

// Metrics holds all Prometheus collectors of the server.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// AuthFailuresTotal counts rejected credentials by kind
	// (unauthorized, login_required, invalid_token, token_revoked).
	AuthFailuresTotal *prometheus.CounterVec
	LoginsTotal       *prometheus.CounterVec
	ThanksTotal       *prometheus.CounterVec
}

// New creates a registry with the Go and process collectors plus the
// server's own metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justask_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "justask_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justask_auth_failures_total",
				Help: "Total number of rejected credentials",
			},
			[]string{"reason"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justask_logins_total",
				Help: "Total number of successful logins by channel",
			},
			[]string{"channel"},
		),
		ThanksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justask_thanks_total",
				Help: "Total number of thank attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthFailuresTotal,
		m.LoginsTotal,
		m.ThanksTotal,
	)

	return m
}

// RegisterRevokedTokens exposes the size of the revocation registry.
func (m *Metrics) RegisterRevokedTokens(size func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "justask_revoked_refresh_tokens",
			Help: "Number of refresh tokens currently held as revoked",
		},
		func() float64 { return float64(size()) },
	))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
