// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package reconciler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/juju/juju-dashboard/core/delta"
)

const (
	metricsNamespace = "dashboard"
	metricsSubsystem = "reconciler"

	outcomeApplied = "applied"
	outcomeSkipped = "skipped"
)

// Metrics counts the deltas seen by a Reconciler. It implements
// prometheus.Collector.
type Metrics struct {
	deltas *prometheus.CounterVec
}

// NewMetrics returns a new, unregistered, Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		deltas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "deltas_total",
			Help:      "Number of watcher deltas processed, by entity kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

// Describe is part of prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.deltas.Describe(ch)
}

// Collect is part of prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.deltas.Collect(ch)
}

// Deltas returns the counter for the given kind and outcome.
func (m *Metrics) Deltas(kind delta.EntityKind, outcome string) prometheus.Counter {
	return m.deltas.WithLabelValues(string(kind), outcome)
}

func (m *Metrics) observe(d delta.Delta, outcome string) {
	if m == nil {
		return
	}
	kind := d.Kind()
	if kind == "" {
		kind = "unknown"
	}
	m.Deltas(kind, outcome).Inc()
}
