// Package gateway is the dispatcher core: the waiting priority queue, the
// active-emergencies set, the allocator, the preemption protocol, and the
// worker pool that drives each emergency through its lifecycle. A single
// mutex guards every piece of mutable state the dispatcher owns; three
// condition variables (emergencyAvailable, rescuerAvailable, progress)
// coordinate workers, the aging monitor, and observers.
package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/relayforge/rescuedispatch/internal/allocator"
	"github.com/relayforge/rescuedispatch/internal/catalog"
	"github.com/relayforge/rescuedispatch/internal/domain"
	"github.com/relayforge/rescuedispatch/internal/eventlog"
	"github.com/relayforge/rescuedispatch/internal/queue"
	"github.com/relayforge/rescuedispatch/internal/respool"
	"github.com/relayforge/rescuedispatch/internal/telemetry"
)

// Config holds dispatcher-level knobs not already captured by the static
// catalog.
type Config struct {
	// WorkerCount is the fixed size of the worker pool driving records
	// through their lifecycle.
	WorkerCount int
}

// DefaultConfig returns the documented default worker count.
func DefaultConfig() Config {
	return Config{WorkerCount: 2}
}

// Dispatcher owns the waiting queue, the active set, the responder pool,
// and the worker pool. All fields below the mutex are guarded by it; the
// catalog is read-only after construction and never needs the lock.
type Dispatcher struct {
	cfg     Config
	catalog *catalog.Catalog
	logger  *slog.Logger
	metrics *telemetry.Metrics

	mu sync.Mutex

	emergencyAvailable *sync.Cond
	rescuerAvailable   *sync.Cond
	progress           *sync.Cond

	pool    *respool.Pool
	waiting queue.Queue
	active  map[*domain.EmergencyRecord]struct{}

	shutdownRequested bool

	wg sync.WaitGroup

	// clock is the dispatcher's source of wall-clock seconds, used to stamp
	// first_waiting_at on enqueue. It defaults to the real clock; tests
	// that need a controllable clock (e.g. to exercise aging/timeout
	// without sleeping) may override it directly, since this file and the
	// test files it's exercised from share the same package.
	clock func() int64

	// onEnqueue, when set, is invoked with every newly created record while
	// the lock is held. It exists solely so white-box tests can capture a
	// pointer to a record they just submitted via Enqueue, since records
	// are intentionally unreachable through any public accessor after
	// Enqueue returns (they live only in the waiting queue or active set).
	onEnqueue func(*domain.EmergencyRecord)
}

// New builds a Dispatcher over the given catalog and responder pool. Call
// Start to spawn the worker pool before handing requests to Enqueue.
func New(cfg Config, cat *catalog.Catalog, pool *respool.Pool, logger *slog.Logger, metrics *telemetry.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		cfg:     cfg,
		catalog: cat,
		logger:  logger,
		metrics: metrics,
		pool:    pool,
		active:  make(map[*domain.EmergencyRecord]struct{}),
	}
	d.emergencyAvailable = sync.NewCond(&d.mu)
	d.rescuerAvailable = sync.NewCond(&d.mu)
	d.progress = sync.NewCond(&d.mu)
	d.clock = nowSeconds
	d.updateIdleGauge()
	return d
}

// Start spawns the fixed worker pool. It returns immediately; workers run
// until Stop is called and they observe shutdownRequested.
func (d *Dispatcher) Start() {
	n := d.cfg.WorkerCount
	if n <= 0 {
		n = 1
	}
	d.wg.Add(n)
	for i := 0; i < n; i++ {
		go func(id int) {
			defer d.wg.Done()
			d.runWorker(id)
		}(i)
	}
}

// Stop requests a graceful shutdown and blocks until every worker has
// drained its in-flight record and exited, or ctx expires first.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.shutdownRequested = true
	d.emergencyAvailable.Broadcast()
	d.rescuerAvailable.Broadcast()
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return newError(KindShutdown, "Dispatcher.Stop", ctx.Err())
	}
}

// Enqueue validates req against the catalog and, on success, creates a new
// WAITING record and inserts it into the waiting queue. Unknown emergency
// types are logged and dropped (§7), never returned as fatal.
func (d *Dispatcher) Enqueue(req domain.EmergencyRequest) error {
	et := d.catalog.EmergencyType(req.TypeName)
	if et == nil {
		d.logEvent(eventlog.EmergencyStatus, "rejected unknown emergency type", "type", req.TypeName)
		if d.metrics != nil {
			d.metrics.EmergenciesRejected.WithLabelValues("unknown-type").Inc()
		}
		return newError(KindUnknownEmergencyType, "Dispatcher.Enqueue", nil)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	enqueuedAt := d.clock()
	r := domain.NewRecord(et, req.X, req.Y, req.Timestamp, enqueuedAt)
	d.recomputeScore(r, enqueuedAt)
	d.waiting.Insert(r)
	if d.onEnqueue != nil {
		d.onEnqueue(r)
	}
	d.emergencyAvailable.Signal()
	d.progress.Broadcast()

	if d.metrics != nil {
		d.metrics.EmergenciesIngested.WithLabelValues(et.Name).Inc()
		d.metrics.WaitingQueueDepth.Set(float64(d.waiting.Len()))
	}
	d.logEvent(eventlog.EmergencyStatus, "enqueued, now WAITING",
		"type", et.Name, "x", r.X, "y", r.Y)

	return nil
}

// Tick runs one pass of the aging & timeout monitor (§4.4). It is driven
// by internal/monitor on a 1-second ticker.
func (d *Dispatcher) Tick(now int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var timedOut []*domain.EmergencyRecord
	for _, r := range d.waiting.All() {
		age := now - r.FirstWaitingAt
		timeout := int64(d.catalog.TimeoutFor(r.Type.Priority))
		if age >= timeout {
			timedOut = append(timedOut, r)
		}
	}
	for _, r := range timedOut {
		d.waiting.Remove(r)
		r.Status = domain.StatusTimeout
		d.logEvent(eventlog.EmergencyStatus, "aged past priority timeout, now TIMEOUT", "type", r.Type.Name)
		if d.metrics != nil {
			d.metrics.EmergenciesTimedOut.Inc()
		}
	}

	queue.RescoreAll(&d.waiting, func(r *domain.EmergencyRecord) {
		d.recomputeScore(r, now)
	})

	if d.metrics != nil {
		d.metrics.WaitingQueueDepth.Set(float64(d.waiting.Len()))
	}
	d.emergencyAvailable.Signal()
	d.progress.Broadcast()
}

// recomputeScore refreshes r.MinDistance from the current pool state and
// r.PriorityScore from the aging formula in §4.4, evaluated at now. Callers
// hold the mutex.
func (d *Dispatcher) recomputeScore(r *domain.EmergencyRecord, now int64) {
	r.MinDistance = allocator.MinDistanceToIdle(d.pool, r.X, r.Y)

	bonus := 0
	age := now - r.FirstWaitingAt
	start := int64(d.catalog.AgingStart)
	if age >= start {
		step := int64(d.catalog.AgingStep)
		if step <= 0 {
			step = 1
		}
		bonus = int((age-start)/step) * domain.AgingBonusStep
	}
	r.ComputeScore(bonus)
}

// logEvent emits one eventlog line tagged with category, with key/value
// pairs appended as slog attributes.
func (d *Dispatcher) logEvent(category eventlog.Category, msg string, kv ...any) {
	args := append([]any{eventlog.WithCategory(category)}, kv...)
	d.logger.Info(msg, args...)
}

// nowSeconds is the dispatcher's wall clock. Tests that need determinism
// replace d.clock (which stamps first_waiting_at in Enqueue) and call Tick
// directly with explicit timestamps instead of relying on this.
func nowSeconds() int64 {
	return time.Now().Unix()
}
