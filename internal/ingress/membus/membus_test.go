package membus

import (
	"context"
	"testing"
	"time"
)

func TestPublishAndConsume(t *testing.T) {
	bus := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Messages(ctx)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}

	if err := bus.Publish([]byte("FIRE;4;4;100")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-messages:
		if string(msg) != "FIRE;4;4;100" {
			t.Errorf("got %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	bus := New()
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Publish([]byte("x")); err != ErrClosed {
		t.Fatalf("Publish after close = %v, want ErrClosed", err)
	}
}

func TestMessagesClosesOnContextCancel(t *testing.T) {
	bus := New()
	ctx, cancel := context.WithCancel(context.Background())

	messages, err := bus.Messages(ctx)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	cancel()

	select {
	case _, ok := <-messages:
		if ok {
			t.Fatal("expected channel to close, got a message")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
