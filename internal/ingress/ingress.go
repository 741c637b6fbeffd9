// Package ingress parses raw request records off the message bus and hands
// validated domain.EmergencyRequest values to the dispatcher. Transport is
// delegated to a Source implementation (internal/ingress/natsbus for
// production, internal/ingress/membus for tests and the bundled fallback);
// this package owns only the wire format and validation rules.
package ingress

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/relayforge/rescuedispatch/internal/domain"
)

// MaxMessageBytes is the largest raw message the bus will carry.
const MaxMessageBytes = 256

// MaxQueuedMessages bounds the bus's internal backlog.
const MaxQueuedMessages = 32

// MaxNameLength is the longest accepted emergency type name.
const MaxNameLength = 64

// Source is the transport boundary: something that yields raw message
// bytes until ctx is cancelled or Close is called.
type Source interface {
	Messages(ctx context.Context) (<-chan []byte, error)
	Close() error
}

// NormalizeQueueName applies the POSIX named-queue convention: if name
// lacks a leading '/', one is prepended.
func NormalizeQueueName(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

// Parse validates and decodes one wire message of the form
// "name;x;y;timestamp" against the grid dimensions and the current wall
// clock. now is injected rather than read from time.Now so that tests can
// exercise the "timestamp > now + 60" rule deterministically.
func Parse(raw []byte, width, height int, now int64) (domain.EmergencyRequest, error) {
	if len(raw) > MaxMessageBytes {
		return domain.EmergencyRequest{}, fmt.Errorf("message exceeds %d bytes", MaxMessageBytes)
	}

	fields := strings.Split(string(raw), ";")
	if len(fields) != 4 {
		return domain.EmergencyRequest{}, fmt.Errorf("expected 4 semicolon-separated fields, got %d", len(fields))
	}
	name, xs, ys, ts := fields[0], fields[1], fields[2], fields[3]

	if name == "" || xs == "" || ys == "" || ts == "" {
		return domain.EmergencyRequest{}, fmt.Errorf("empty field in %q", raw)
	}
	if len(name) >= MaxNameLength {
		return domain.EmergencyRequest{}, fmt.Errorf("name %q is %d chars, must be < %d", name, len(name), MaxNameLength)
	}

	x, err := strconv.Atoi(xs)
	if err != nil {
		return domain.EmergencyRequest{}, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return domain.EmergencyRequest{}, fmt.Errorf("invalid y %q", ys)
	}
	if x < 0 || x >= width || y < 0 || y >= height {
		return domain.EmergencyRequest{}, fmt.Errorf("(%d,%d) outside %dx%d grid", x, y, width, height)
	}

	timestamp, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return domain.EmergencyRequest{}, fmt.Errorf("invalid timestamp %q", ts)
	}
	if timestamp <= 0 || timestamp > now+60 {
		return domain.EmergencyRequest{}, fmt.Errorf("timestamp %d outside (0, now+60]", timestamp)
	}

	return domain.EmergencyRequest{
		TypeName:  name,
		X:         x,
		Y:         y,
		Timestamp: timestamp,
	}, nil
}
