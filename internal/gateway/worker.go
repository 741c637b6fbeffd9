package gateway

import (
	"time"

	"github.com/relayforge/rescuedispatch/internal/allocator"
	"github.com/relayforge/rescuedispatch/internal/domain"
	"github.com/relayforge/rescuedispatch/internal/eventlog"
)

// runWorker is the body of one worker goroutine: pop a record, allocate
// (directly or via preemption), commit, simulate travel and service, then
// return responders and free the record. See §4.5 for the design-altitude
// pseudocode this mirrors.
func (d *Dispatcher) runWorker(id int) {
	for {
		d.mu.Lock()
		for !d.shutdownRequested && d.waiting.Len() == 0 {
			d.emergencyAvailable.Wait()
		}
		if d.shutdownRequested {
			d.mu.Unlock()
			return
		}

		r := d.waiting.PopFront()
		indices, ok := d.tryAllocate(r)
		if !ok {
			d.waiting.Insert(r)
			d.rescuerAvailable.Wait()
			d.mu.Unlock()
			continue
		}

		d.commit(r, indices)
		travel := d.travelSeconds(indices, r)
		d.mu.Unlock()

		if !d.sleepWithCancel(r, travel) {
			d.cleanupInterrupted(r)
			continue
		}

		d.mu.Lock()
		if d.shutdownRequested || r.Preempted {
			d.mu.Unlock()
			d.cleanupInterrupted(r)
			continue
		}
		for _, idx := range r.Assigned {
			inst := d.pool.Get(idx)
			inst.X, inst.Y = r.X, r.Y
			inst.Status = domain.ResponderOnScene
		}
		r.Status = domain.StatusInProgress
		d.logEvent(eventlog.RescuerStatus, "on scene", "type", r.Type.Name)
		d.progress.Broadcast()
		d.mu.Unlock()

		if !d.serviceLoop(r) {
			d.cleanupInterrupted(r)
			continue
		}

		d.mu.Lock()
		if d.shutdownRequested || r.Preempted {
			d.mu.Unlock()
			d.cleanupInterrupted(r)
			continue
		}
		for _, idx := range r.Assigned {
			d.pool.Get(idx).Status = domain.ResponderReturning
		}
		d.mu.Unlock()

		if !d.sleepWithCancel(r, travel) {
			d.cleanupInterrupted(r)
			continue
		}

		d.mu.Lock()
		if !d.shutdownRequested && !r.Preempted {
			d.completeRecord(r)
		}
		d.mu.Unlock()
	}
}

// tryAllocate attempts a direct allocation, falling back to the preemption
// protocol on failure. Caller holds the mutex.
func (d *Dispatcher) tryAllocate(r *domain.EmergencyRecord) ([]int, bool) {
	start := time.Now()
	if d.metrics != nil {
		d.metrics.AllocationAttempts.Inc()
	}
	indices, ok := allocator.Try(d.pool, d.catalog, r)
	if !ok {
		indices, ok = d.preempt(r)
	}
	if d.metrics != nil {
		d.metrics.AllocationLatencyMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
		if !ok {
			d.metrics.AllocationFailures.Inc()
		}
	}
	return indices, ok
}

// updateIdleGauge recomputes the idle-responder count across every type and
// sets the corresponding metric. Caller holds the mutex.
func (d *Dispatcher) updateIdleGauge() {
	if d.metrics == nil {
		return
	}
	n := 0
	for i := range d.pool.Instances {
		if d.pool.Instances[i].Status == domain.ResponderIdle {
			n++
		}
	}
	d.metrics.IdleResponders.Set(float64(n))
}

// commit moves r into the active set and starts its assigned responders
// toward the scene. Caller holds the mutex. Per the commit rule (§4.5),
// responder status changes happen only after r is in the active set.
func (d *Dispatcher) commit(r *domain.EmergencyRecord, indices []int) {
	r.Assigned = indices
	r.Status = domain.StatusAssigned
	r.Preempted = false
	d.active[r] = struct{}{}

	for _, idx := range indices {
		d.pool.Get(idx).Status = domain.ResponderEnRoute
	}

	d.logEvent(eventlog.EmergencyStatus, "allocated, now ASSIGNED", "type", r.Type.Name)
	d.progress.Broadcast()
	d.updateIdleGauge()
	if d.metrics != nil {
		d.metrics.ActiveEmergencies.Set(float64(len(d.active)))
	}
}

// travelSeconds is the max over assigned responders of the whole-second
// travel time from their current position to r's location.
func (d *Dispatcher) travelSeconds(indices []int, r *domain.EmergencyRecord) int {
	max := 0
	for _, idx := range indices {
		inst := d.pool.Get(idx)
		t := d.catalog.ResponderTypes[inst.TypeIndex]
		secs := t.TravelSeconds(domain.ManhattanDistance(inst.X, inst.Y, r.X, r.Y))
		if secs > max {
			max = secs
		}
	}
	return max
}

// sleepWithCancel sleeps seconds one second at a time, re-acquiring the
// mutex after each tick to check for shutdown or preemption. It returns
// false the instant either is observed, without sleeping out the rest of
// the duration.
func (d *Dispatcher) sleepWithCancel(r *domain.EmergencyRecord, seconds int) bool {
	for s := 0; s < seconds; s++ {
		time.Sleep(time.Second)
		d.mu.Lock()
		cancelled := d.shutdownRequested || r.Preempted
		d.mu.Unlock()
		if cancelled {
			return false
		}
	}
	return true
}

// serviceLoop decrements r.ServiceRemaining one second at a time until it
// reaches zero, checking for cancellation before each decrement.
func (d *Dispatcher) serviceLoop(r *domain.EmergencyRecord) bool {
	for {
		d.mu.Lock()
		if d.shutdownRequested || r.Preempted {
			d.mu.Unlock()
			return false
		}
		if r.ServiceRemaining <= 0 {
			d.mu.Unlock()
			return true
		}
		r.ServiceRemaining--
		d.mu.Unlock()
		time.Sleep(time.Second)
	}
}

// completeRecord returns every assigned responder to base/IDLE, marks r
// COMPLETED, and removes it from the active set. Caller holds the mutex.
func (d *Dispatcher) completeRecord(r *domain.EmergencyRecord) {
	d.releaseResponders(r)
	r.Status = domain.StatusCompleted
	delete(d.active, r)

	d.logEvent(eventlog.EmergencyStatus, "returned to base, now COMPLETED", "type", r.Type.Name)
	d.rescuerAvailable.Broadcast()
	d.progress.Broadcast()
	d.updateIdleGauge()
	if d.metrics != nil {
		d.metrics.EmergenciesComplete.Inc()
		d.metrics.ActiveEmergencies.Set(float64(len(d.active)))
	}
}

// cleanupInterrupted handles a worker whose sleep or service loop was
// cancelled. If r was preempted, the preemptor already released its
// responders and requeued it; there is nothing left for this worker to do.
// If the cancellation was shutdown instead, this worker drains r itself:
// release any held responders, mark COMPLETED (shutdown is graceful), and
// remove it from the active set.
func (d *Dispatcher) cleanupInterrupted(r *domain.EmergencyRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r.Preempted {
		return
	}
	if !d.shutdownRequested {
		return
	}

	d.releaseResponders(r)
	r.Status = domain.StatusCompleted
	delete(d.active, r)

	d.logEvent(eventlog.EmergencyStatus, "drained on shutdown, now COMPLETED", "type", r.Type.Name)
	d.rescuerAvailable.Broadcast()
	d.progress.Broadcast()
	d.updateIdleGauge()
}

// releaseResponders returns every responder assigned to r to IDLE at its
// type's base position and clears r.Assigned. Caller holds the mutex.
func (d *Dispatcher) releaseResponders(r *domain.EmergencyRecord) {
	for _, idx := range r.Assigned {
		inst := d.pool.Get(idx)
		t := d.catalog.ResponderTypes[inst.TypeIndex]
		inst.X, inst.Y = t.BaseX, t.BaseY
		inst.Status = domain.ResponderIdle
	}
	r.Assigned = nil
}
