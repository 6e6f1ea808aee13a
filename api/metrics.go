// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks how many connections are in each state. It implements
// prometheus.Collector.
type Metrics struct {
	connections *prometheus.GaugeVec

	mu      sync.Mutex
	current map[string]State
}

// NewMetrics returns a new, unregistered, Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		connections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dashboard",
			Subsystem: "api",
			Name:      "connections",
			Help:      "Number of controller and model connections, by state.",
		}, []string{"state"}),
		current: make(map[string]State),
	}
}

// Describe is part of prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.connections.Describe(ch)
}

// Collect is part of prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.connections.Collect(ch)
}

// Connections returns the gauge for the given state.
func (m *Metrics) Connections(state State) prometheus.Gauge {
	return m.connections.WithLabelValues(state.String())
}

// transition moves the connection with the given id into state. Closed
// connections are no longer counted.
func (m *Metrics) transition(id string, state State) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.current[id]; ok {
		m.Connections(prev).Dec()
	}
	if state == Closed {
		delete(m.current, id)
		return
	}
	m.Connections(state).Inc()
	m.current[id] = state
}
