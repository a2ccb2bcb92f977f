// Package correlation threads a per-request ID through context and into
// every log line emitted while handling that request. The websocket
// coordinator stamps each outbound frame with one of these IDs so a
// request can be traced from client log to server log.
package correlation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

const attrKey = "correlation_id"

type ctxKey struct{}

// NewID returns a short random hex ID, unique enough to grep one
// request's log lines out of a busy stream.
func NewID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// WithID stores id in the context for later extraction by ID and the
// logging Handler.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID reports the correlation ID stored in ctx. The second return is
// false when no ID was set or it was empty.
func ID(ctx context.Context) (string, bool) {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s, s != ""
}

// Handler decorates log records with the context's correlation ID
// before delegating to the wrapped handler.
type Handler struct {
	next slog.Handler
}

// NewHandler wraps next with correlation ID injection.
func NewHandler(next slog.Handler) *Handler {
	return &Handler{next: next}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, rec slog.Record) error {
	if id, ok := ID(ctx); ok {
		rec.AddAttrs(slog.String(attrKey, id))
	}
	return h.next.Handle(ctx, rec)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{next: h.next.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name)}
}
