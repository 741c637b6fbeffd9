// Package telemetry provides the dispatcher's Prometheus metrics. Metrics
// are registered against a private registry and are never served over
// HTTP — the message ingress is the only network-transport boundary this
// system is permitted (see the dispatcher's non-goals); Metrics exists for
// in-process introspection and tests.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector the dispatcher updates.
type Metrics struct {
	EmergenciesIngested *prometheus.CounterVec
	EmergenciesRejected *prometheus.CounterVec
	EmergenciesTimedOut prometheus.Counter
	EmergenciesComplete prometheus.Counter
	Preemptions         prometheus.Counter

	WaitingQueueDepth prometheus.Gauge
	ActiveEmergencies prometheus.Gauge
	IdleResponders    prometheus.Gauge

	AllocationAttempts  prometheus.Counter
	AllocationFailures  prometheus.Counter
	AllocationLatencyMs prometheus.Histogram
}

// New creates and registers every collector against registry. A nil
// registry falls back to a fresh private prometheus.Registry — tests and
// the production entrypoint each get an isolated registration space.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Metrics{
		EmergenciesIngested: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rescuedispatch_emergencies_ingested_total",
				Help: "Emergency requests accepted from ingress, by type.",
			},
			[]string{"type"},
		),
		EmergenciesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rescuedispatch_emergencies_rejected_total",
				Help: "Ingress requests dropped before reaching the waiting queue, by reason.",
			},
			[]string{"reason"},
		),
		EmergenciesTimedOut: factory.NewCounter(prometheus.CounterOpts{
			Name: "rescuedispatch_emergencies_timed_out_total",
			Help: "Waiting records transitioned to TIMEOUT by the aging monitor.",
		}),
		EmergenciesComplete: factory.NewCounter(prometheus.CounterOpts{
			Name: "rescuedispatch_emergencies_completed_total",
			Help: "Records that reached COMPLETED.",
		}),
		Preemptions: factory.NewCounter(prometheus.CounterOpts{
			Name: "rescuedispatch_preemptions_total",
			Help: "Active records reclaimed back to PAUSED by the preemption protocol.",
		}),

		WaitingQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rescuedispatch_waiting_queue_depth",
			Help: "Current number of records in the waiting queue.",
		}),
		ActiveEmergencies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rescuedispatch_active_emergencies",
			Help: "Current number of records in the active set.",
		}),
		IdleResponders: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rescuedispatch_idle_responders",
			Help: "Current number of IDLE responder instances across all types.",
		}),

		AllocationAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "rescuedispatch_allocation_attempts_total",
			Help: "Allocator invocations, including those resolved via preemption.",
		}),
		AllocationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "rescuedispatch_allocation_failures_total",
			Help: "Allocator invocations that did not result in a commit.",
		}),
		AllocationLatencyMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rescuedispatch_allocation_latency_ms",
			Help:    "Wall-clock time spent inside a single allocation attempt, in milliseconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100},
		}),
	}
}
