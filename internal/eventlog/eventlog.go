// Package eventlog provides the dispatcher's structured, operator-facing
// event log: a custom slog.Handler that renders every record as
// "[YYYY-MM-DD HH:MM:SS] [EVENT-ID] [CATEGORY] message", with EVENT-ID a
// process-lifetime monotonic sequence number rather than a random
// identifier — a random UUID embedded in the log text would break the
// determinism law (identical input + clock must produce an identical log
// event sequence).
package eventlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Category tags every event with the subsystem that produced it.
type Category string

const (
	FileParsing     Category = "FILE_PARSING"
	MessageQueue    Category = "MESSAGE_QUEUE"
	EmergencyStatus Category = "EMERGENCY_STATUS"
	RescuerStatus   Category = "RESCUER_STATUS"
	Configuration   Category = "CONFIGURATION"
	System          Category = "SYSTEM"
)

// categoryKey is the slog attribute key under which the Category is
// stashed; Handle reads it back out and does not print it as a normal
// attribute.
const categoryKey = "category"

// WithCategory returns a slog.Attr that tags a log record with its
// category. Every call site in this codebase is expected to include
// exactly one of these.
func WithCategory(c Category) slog.Attr {
	return slog.String(categoryKey, string(c))
}

// Handler renders records as "[timestamp] [EVENT-ID] [CATEGORY] message".
// It is safe for concurrent use and assigns event IDs from a single
// monotonic counter shared by every goroutine writing through it.
type Handler struct {
	mu   *sync.Mutex
	w    io.Writer
	seq  *atomic.Uint64
	attr []slog.Attr
}

// New builds a Handler writing rendered lines to w.
func New(w io.Writer) *Handler {
	return &Handler{
		mu:  &sync.Mutex{},
		w:   w,
		seq: &atomic.Uint64{},
	}
}

// NextSeq returns the event sequence number that the next record written
// through h will receive, without consuming it. Callers may use this to
// correlate state with the log line about to be emitted for it; no
// package in this module calls it outside its tests.
func (h *Handler) NextSeq() uint64 {
	return h.seq.Load() + 1
}

// Enabled reports that every level is enabled; the dispatcher's log is not
// filtered by level, only by category.
func (h *Handler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle renders and writes one record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	category := "SYSTEM"
	var extra []string

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == categoryKey {
			category = a.Value.String()
			return true
		}
		extra = append(extra, fmt.Sprintf("%s=%v", a.Key, a.Value.Any()))
		return true
	})
	for _, a := range h.attr {
		if a.Key == categoryKey {
			category = a.Value.String()
			continue
		}
		extra = append(extra, fmt.Sprintf("%s=%v", a.Key, a.Value.Any()))
	}

	seq := h.seq.Add(1)
	msg := r.Message
	for _, e := range extra {
		msg += " " + e
	}

	line := fmt.Sprintf("[%s] [%06d] [%s] %s\n",
		r.Time.Format("2006-01-02 15:04:05"), seq, category, msg)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

// WithAttrs returns a new Handler carrying additional attributes — used by
// slog.Logger.With. The returned handler shares the sequence counter and
// writer lock with h.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		mu:   h.mu,
		w:    h.w,
		seq:  h.seq,
		attr: append(append([]slog.Attr{}, h.attr...), attrs...),
	}
}

// WithGroup is unsupported: the dispatcher's log format is flat and never
// nests attribute groups.
func (h *Handler) WithGroup(name string) slog.Handler {
	return h
}

// Logger builds an *slog.Logger backed by a Handler writing to w.
func Logger(w io.Writer) *slog.Logger {
	return slog.New(New(w))
}
