package ingress

import (
	"context"
	"log/slog"

	"github.com/relayforge/rescuedispatch/internal/domain"
	"github.com/relayforge/rescuedispatch/internal/eventlog"
)

// Clock returns the current wall-clock time in seconds, injected so tests
// can control the "timestamp > now + 60" rule.
type Clock func() int64

// Handle hands one parsed, validated request to the dispatcher.
type Handle func(domain.EmergencyRequest) error

// Run reads raw messages from src until ctx is cancelled, parses each
// against (width, height), and passes well-formed requests to handle.
// Malformed messages are logged and dropped (§7) — Run never returns an
// error for a bad message, only for a transport failure starting up.
func Run(ctx context.Context, logger *slog.Logger, src Source, width, height int, clock Clock, handle Handle) error {
	messages, err := src.Messages(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-messages:
			if !ok {
				return nil
			}
			req, err := Parse(raw, width, height, clock())
			if err != nil {
				logger.Info("dropped malformed message", eventlog.WithCategory(eventlog.MessageQueue), "error", err.Error())
				continue
			}
			if err := handle(req); err != nil {
				logger.Info("dropped request", eventlog.WithCategory(eventlog.MessageQueue), "error", err.Error())
			}
		}
	}
}
