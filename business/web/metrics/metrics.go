// Package metrics holds the Prometheus collectors for the web layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics represents the set of collectors updated by the middleware.
type Metrics struct {
	Requests *prometheus.CounterVec
	Errors   *prometheus.CounterVec
	Panics   prometheus.Counter
	Latency  *prometheus.HistogramVec
}

// New constructs the web collectors. They still need to be registered.
func New() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Number of HTTP requests received",
			},
			[]string{"method"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_errors_total",
				Help: "Number of HTTP requests that returned an error",
			},
			[]string{"method"},
		),
		Panics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_http_panics_total",
				Help: "Number of panics recovered in handlers",
			},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_latency_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// Collectors returns the collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Requests, m.Errors, m.Panics, m.Latency}
}
