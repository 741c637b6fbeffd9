// Package natsbus is the production ingress.Source: it subscribes to a
// NATS subject named after the configured queue and forwards raw message
// payloads to the dispatcher's ingest loop. NATS is the one network
// transport this system is permitted to use — the message bus itself is
// explicitly carved out of the "no network transport" non-goal.
package natsbus

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/relayforge/rescuedispatch/internal/ingress"
)

// Config holds connection settings for the NATS-backed bus.
type Config struct {
	URL            string
	Queue          string // subject name, normalized via ingress.NormalizeQueueName
	ReconnectWait  time.Duration
	MaxReconnects  int
	ConnectTimeout time.Duration
}

// DefaultConfig returns sane defaults for everything but URL and Queue.
func DefaultConfig() Config {
	return Config{
		URL:            nats.DefaultURL,
		ReconnectWait:  time.Second,
		MaxReconnects:  -1,
		ConnectTimeout: 5 * time.Second,
	}
}

// Bus subscribes to one NATS subject and exposes its payloads as a Source.
type Bus struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	subject string
}

// Connect dials NATS and records cfg.Queue (normalized) as the subject;
// the subscription itself is made by Messages.
func Connect(cfg Config) (*Bus, error) {
	subject := ingress.NormalizeQueueName(cfg.Queue)

	conn, err := nats.Connect(cfg.URL,
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.Timeout(cfg.ConnectTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", cfg.URL, err)
	}

	return &Bus{conn: conn, subject: subject}, nil
}

// Messages subscribes to the bus's subject and streams payloads on the
// returned channel until ctx is cancelled or Close is called. Buffering is
// bounded at ingress.MaxQueuedMessages: once full, additional NATS
// deliveries are dropped rather than blocking the subscription callback.
func (b *Bus) Messages(ctx context.Context) (<-chan []byte, error) {
	out := make(chan []byte, ingress.MaxQueuedMessages)

	sub, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		select {
		case out <- msg.Data:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", b.subject, err)
	}
	b.sub = sub

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
		close(out)
	}()

	return out, nil
}

// Close unsubscribes and closes the underlying NATS connection.
func (b *Bus) Close() error {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	if b.conn != nil {
		b.conn.Close()
	}
	return nil
}
