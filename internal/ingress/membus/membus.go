// Package membus is an in-process ingress.Source: a bounded channel fed
// directly by callers via Publish. It is used by tests that need a
// deterministic, dependency-free bus, and as the fallback source when no
// NATS URL is configured.
package membus

import (
	"context"
	"errors"

	"github.com/relayforge/rescuedispatch/internal/ingress"
)

// ErrClosed is returned by Publish once the bus has been closed.
var ErrClosed = errors.New("membus: closed")

// Bus is a channel-backed ingress.Source bounded at
// ingress.MaxQueuedMessages.
type Bus struct {
	messages chan []byte
	closed   chan struct{}
}

// New creates an empty, open Bus.
func New() *Bus {
	return &Bus{
		messages: make(chan []byte, ingress.MaxQueuedMessages),
		closed:   make(chan struct{}),
	}
}

// Publish enqueues a raw message. It blocks if the bus is at capacity,
// mirroring a bounded named queue, and returns ErrClosed if Close was
// already called.
func (b *Bus) Publish(raw []byte) error {
	select {
	case <-b.closed:
		return ErrClosed
	default:
	}
	select {
	case b.messages <- raw:
		return nil
	case <-b.closed:
		return ErrClosed
	}
}

// Messages returns the bus's message channel. It closes when ctx is
// cancelled or Close is called.
func (b *Bus) Messages(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte, ingress.MaxQueuedMessages)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.closed:
				return
			case msg, ok := <-b.messages:
				if !ok {
					return
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close shuts the bus down; subsequent Publish calls fail.
func (b *Bus) Close() error {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
	return nil
}
