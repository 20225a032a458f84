// Package metrics holds the Prometheus collectors of the accounts service.
// Collectors live on a dedicated registry so that several instances (tests,
// embedded servers) never collide on the global one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "accounts"

// Login event outcomes.
const (
	OutcomeRecorded = "recorded"
	OutcomeRejected = "rejected"
	OutcomeRequeued = "requeued"
	OutcomeFailed   = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	loginEvents     *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of dispatched commands by reply code.",
			},
			[]string{"cmd", "method", "code"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Duration of command handling in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"cmd", "method"},
		),
		loginEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_events_total",
				Help:      "Total number of consumed login events by outcome.",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		m.commandsTotal,
		m.commandDuration,
		m.loginEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveCommand records one dispatched command. An empty code means success.
func (m *Metrics) ObserveCommand(cmd, method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if code == "" {
		code = "ok"
	}

	m.commandsTotal.WithLabelValues(cmd, method, code).Inc()
	m.commandDuration.WithLabelValues(cmd, method).Observe(elapsed.Seconds())
}

// LoginEvent records the outcome of one consumed login event.
func (m *Metrics) LoginEvent(outcome string) {
	if m == nil {
		return
	}

	m.loginEvents.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
