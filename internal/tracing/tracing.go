// Package tracing provides trace ID generation and context propagation
// for structured logging across the engine: stream ingestion, command
// handling, the engine lifecycle and order execution tag their log lines
// with the trace ID and pair carried in their context.
package tracing

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	pairKey    contextKey = "pair"

	// TraceIDField is the zerolog field name used for trace IDs.
	TraceIDField = "trace_id"
	// PairField is the zerolog field name used for the trading pair.
	PairField = "pair"
)

// NewTraceID generates a cryptographically random trace ID: a 16-character
// lowercase hex string (64 bits of entropy).
func NewTraceID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000"
	}
	return fmt.Sprintf("%x", b)
}

// WithTraceID returns a new context with the given trace ID attached.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromCtx extracts the trace ID from context, or "" if absent.
func TraceIDFromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}

// WithPair returns a new context tagged with the trading pair it concerns.
func WithPair(ctx context.Context, pair string) context.Context {
	return context.WithValue(ctx, pairKey, pair)
}

// PairFromCtx extracts the trading pair from context, or "" if absent.
func PairFromCtx(ctx context.Context) string {
	if p, ok := ctx.Value(pairKey).(string); ok {
		return p
	}
	return ""
}

// Logger returns a zerolog sub-logger carrying whatever trace ID and pair
// are present in ctx. Fields absent from ctx are simply omitted.
//
// Usage:
//
//	tracing.Logger(ctx).Info().Str("strategy", "rsi").Msg("signal emitted")
func Logger(ctx context.Context) zerolog.Logger {
	logCtx := log.With()
	if traceID := TraceIDFromCtx(ctx); traceID != "" {
		logCtx = logCtx.Str(TraceIDField, traceID)
	}
	if pair := PairFromCtx(ctx); pair != "" {
		logCtx = logCtx.Str(PairField, pair)
	}
	return logCtx.Logger()
}
