package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTraceIDFormat(t *testing.T) {
	id := NewTraceID()
	assert.Len(t, id, 16)
}

func TestNewTraceIDUnique(t *testing.T) {
	assert.NotEqual(t, NewTraceID(), NewTraceID())
}

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc123")
	assert.Equal(t, "abc123", TraceIDFromCtx(ctx))
}

func TestTraceIDFromCtxEmptyWhenAbsent(t *testing.T) {
	assert.Equal(t, "", TraceIDFromCtx(context.Background()))
}

func TestPairRoundTrip(t *testing.T) {
	ctx := WithPair(context.Background(), "BTCUSDT")
	assert.Equal(t, "BTCUSDT", PairFromCtx(ctx))
}

func TestLoggerDoesNotPanicWithoutContext(t *testing.T) {
	assert.NotPanics(t, func() {
		Logger(context.Background()).Info().Msg("no fields")
	})
}
