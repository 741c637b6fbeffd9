package gateway

import (
	"github.com/relayforge/rescuedispatch/internal/allocator"
	"github.com/relayforge/rescuedispatch/internal/domain"
	"github.com/relayforge/rescuedispatch/internal/eventlog"
	"github.com/relayforge/rescuedispatch/internal/respool"
)

// preempt implements the preemption protocol (§4.3): retry the allocator,
// and on failure reclaim the best eligible victim's responders and retry
// again, until either an allocation succeeds or no eligible victim
// remains. Caller holds the mutex.
func (d *Dispatcher) preempt(r *domain.EmergencyRecord) ([]int, bool) {
	for {
		indices, ok := allocator.Try(d.pool, d.catalog, r)
		if ok {
			return indices, true
		}

		victim := d.selectVictim(r)
		if victim == nil {
			return nil, false
		}
		d.releaseVictim(victim)
	}
}

// selectVictim finds the best record in the active set eligible for
// preemption by r: strictly lower base priority, every assigned responder
// in {EN_ROUTE, ON_SCENE} (RETURNING responders have already delivered
// their service and are not releasable), and not already preempted.
// Among eligible victims, the lowest base priority wins; ties broken by
// lowest priority_score.
func (d *Dispatcher) selectVictim(r *domain.EmergencyRecord) *domain.EmergencyRecord {
	var best *domain.EmergencyRecord
	for v := range d.active {
		if v.Type.Priority >= r.Type.Priority {
			continue
		}
		if v.Preempted {
			continue
		}
		if !allReleasable(d.pool, v.Assigned) {
			continue
		}
		if best == nil ||
			v.Type.Priority < best.Type.Priority ||
			(v.Type.Priority == best.Type.Priority && v.PriorityScore < best.PriorityScore) {
			best = v
		}
	}
	return best
}

// allReleasable reports whether every responder in assigned is currently
// EN_ROUTE or ON_SCENE — never RETURNING.
func allReleasable(pool *respool.Pool, assigned []int) bool {
	for _, idx := range assigned {
		switch pool.Get(idx).Status {
		case domain.ResponderEnRoute, domain.ResponderOnScene:
		default:
			return false
		}
	}
	return true
}

// releaseVictim reclaims v's responders, moves v from the active set back
// into the waiting queue as PAUSED, and signals rescuer_available. v's
// original first_waiting_at is preserved, so it continues to age (§9).
func (d *Dispatcher) releaseVictim(v *domain.EmergencyRecord) {
	d.releaseResponders(v)
	v.Status = domain.StatusPaused
	v.Preempted = true
	delete(d.active, v)
	d.recomputeScore(v, d.clock())
	d.waiting.Insert(v)

	d.logEvent(eventlog.EmergencyStatus, "preempted, now PAUSED", "type", v.Type.Name)
	d.rescuerAvailable.Broadcast()
	d.progress.Broadcast()
	d.updateIdleGauge()
	if d.metrics != nil {
		d.metrics.Preemptions.Inc()
		d.metrics.ActiveEmergencies.Set(float64(len(d.active)))
		d.metrics.WaitingQueueDepth.Set(float64(d.waiting.Len()))
	}
}
