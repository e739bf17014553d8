// Package metrics exports skeleton lifecycle events as Prometheus metrics.
package metrics

import (
	"github.com/phanxgames/skel"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a skel.EventSink that records ticks, placements and
// completions per skeleton.
type Collector struct {
	ticks      *prometheus.CounterVec
	clock      *prometheus.GaugeVec
	placements *prometheus.CounterVec
	finished   *prometheus.CounterVec
	bones      *prometheus.GaugeVec
}

var _ skel.EventSink = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skel_ticks_total",
				Help: "Total number of ticks that moved a skeleton",
			},
			[]string{"skeleton"},
		),
		clock: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skel_clock_seconds",
				Help: "Animation clock of the last event",
			},
			[]string{"skeleton"},
		),
		placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skel_placements_total",
				Help: "Total number of bone placements written to the scene",
			},
			[]string{"skeleton"},
		),
		finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skel_animations_finished_total",
				Help: "Total number of animations that completed or aborted",
			},
			[]string{"skeleton", "result"},
		),
		bones: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skel_bones",
				Help: "Number of bones placed by the last tick",
			},
			[]string{"skeleton"},
		),
	}
	reg.MustRegister(c.ticks, c.clock, c.placements, c.finished, c.bones)
	return c
}

// EmitEvent implements skel.EventSink.
func (c *Collector) EmitEvent(e skel.Event) {
	c.clock.WithLabelValues(e.Skeleton).Set(e.Clock)
	switch e.Type {
	case skel.EventInstanced:
		// Create the series so a skeleton that never moves still shows up.
		c.ticks.WithLabelValues(e.Skeleton)
		c.placements.WithLabelValues(e.Skeleton)
	case skel.EventTick:
		n := float64(len(e.Placements))
		c.ticks.WithLabelValues(e.Skeleton).Inc()
		c.placements.WithLabelValues(e.Skeleton).Add(n)
		c.bones.WithLabelValues(e.Skeleton).Set(n)
	case skel.EventFinished:
		result := "ok"
		if e.Err != nil {
			result = "error"
		}
		c.finished.WithLabelValues(e.Skeleton, result).Inc()
	}
}
