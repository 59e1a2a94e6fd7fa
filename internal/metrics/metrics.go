// Package metrics counts store dispatches and service requests with
// Prometheus collectors on a private registry.
//
// The CLI is short-lived, so metrics are exported with WriteTextfile for a
// node_exporter textfile collector rather than served over HTTP.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/rollforward/internal/state"
)

const namespace = "rollforward"

// Metrics implements state.Observer and session.Observer.
type Metrics struct {
	registry   *prometheus.Registry
	dispatches *prometheus.CounterVec
	stale      *prometheus.CounterVec
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Actions applied to the model store.",
		}, []string{"action", "section"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_writes_total",
			Help:      "Conditional dispatches rejected because the section had changed.",
		}, []string{"section"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests to the roll-forward service by outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from issuing a request to handling its response.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	m.registry.MustRegister(m.dispatches, m.stale, m.requests, m.latency)
	return m
}

// Registry exposes the registry, e.g. for tests or an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveDispatch counts an applied action.
func (m *Metrics) ObserveDispatch(action string, section state.Section) {
	m.dispatches.WithLabelValues(action, string(section)).Inc()
}

// ObserveStaleWrite counts a rejected conditional dispatch.
func (m *Metrics) ObserveStaleWrite(section state.Section) {
	m.stale.WithLabelValues(string(section)).Inc()
}

// ObserveRequest counts a finished request and records its latency.
func (m *Metrics) ObserveRequest(op, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// WriteTextfile writes all metrics in the text exposition format to path.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
