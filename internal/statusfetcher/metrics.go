// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package statusfetcher

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeFetched   = "fetched"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"
	outcomeCancelled = "cancelled"
)

// Metrics records fetch outcomes. It implements prometheus.Collector.
type Metrics struct {
	fetches  *prometheus.CounterVec
	inflight prometheus.Gauge
}

// NewMetrics returns a new, unregistered, Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "statusfetcher",
			Name:      "models_total",
			Help:      "Number of model fetches, by outcome.",
		}, []string{"outcome"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Subsystem: "statusfetcher",
			Name:      "in_flight",
			Help:      "Number of models currently being fetched.",
		}),
	}
}

// Describe is part of prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.fetches.Describe(ch)
	m.inflight.Describe(ch)
}

// Collect is part of prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.fetches.Collect(ch)
	m.inflight.Collect(ch)
}

// Fetches returns the counter for the given outcome.
func (m *Metrics) Fetches(outcome string) prometheus.Counter {
	return m.fetches.WithLabelValues(outcome)
}

// InFlight returns the in-flight gauge.
func (m *Metrics) InFlight() prometheus.Gauge {
	return m.inflight
}

func (m *Metrics) observe(outcome string, n int) {
	if m == nil {
		return
	}
	m.Fetches(outcome).Add(float64(n))
}

func (m *Metrics) inFlight(delta float64) {
	if m == nil {
		return
	}
	m.inflight.Add(delta)
}
