// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package arena

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors of the block allocator.
// All methods are nil-safe, a nil *Metrics records nothing.
type Metrics struct {
	allocations *prometheus.CounterVec
	exhaustions *prometheus.CounterVec
	blocks      *prometheus.CounterVec
	reserved    *prometheus.GaugeVec
}

// NewMetrics creates the allocator collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		allocations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snode",
			Subsystem: "arena",
			Name:      "allocations_total",
			Help:      "Children allocated by arenas, per execution context.",
		}, []string{"context"}),

		exhaustions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snode",
			Subsystem: "arena",
			Name:      "exhausted_total",
			Help:      "Allocation requests rejected because the context limit was reached.",
		}, []string{"context"}),

		blocks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snode",
			Subsystem: "arena",
			Name:      "blocks_total",
			Help:      "Backing blocks created by arenas, per execution context.",
		}, []string{"context"}),

		reserved: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "snode",
			Subsystem: "arena",
			Name:      "reserved_bytes",
			Help:      "Bytes currently reserved from the execution context.",
		}, []string{"context"}),
	}
}

func (m *Metrics) allocated(ctx string) {
	if m != nil {
		m.allocations.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) exhausted(ctx string) {
	if m != nil {
		m.exhaustions.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) blockAdded(ctx string) {
	if m != nil {
		m.blocks.WithLabelValues(ctx).Inc()
	}
}

func (m *Metrics) setReserved(ctx string, bytes uint64) {
	if m != nil {
		m.reserved.WithLabelValues(ctx).Set(float64(bytes))
	}
}
