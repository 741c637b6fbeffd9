package monitor

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeDispatcher struct {
	mu    sync.Mutex
	ticks []int64
}

func (f *fakeDispatcher) Tick(now int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks = append(f.ticks, now)
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ticks)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	fake := &fakeDispatcher{}
	m := New(fake)
	m.interval = 5 * time.Millisecond
	n := int64(0)
	m.clock = func() int64 { n++; return n }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if fake.count() == 0 {
		t.Error("expected at least one Tick call")
	}
}

func TestRunReturnsImmediatelyOnAlreadyCancelledContext(t *testing.T) {
	fake := &fakeDispatcher{}
	m := New(fake)
	m.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately when context is already cancelled")
	}
}
