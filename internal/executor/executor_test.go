package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherwood-core/engine/internal/models"
)

type fakeBoundary struct {
	fill models.Fill
	err  error
}

func (f *fakeBoundary) SubmitOrder(ctx context.Context, order models.Order) (models.Fill, error) {
	return f.fill, f.err
}
func (f *fakeBoundary) OpenPositions(ctx context.Context) ([]models.Position, error) { return nil, nil }
func (f *fakeBoundary) CurrentPrice(ctx context.Context, pair string) (float64, error) {
	return 0, nil
}

type fakeSink struct {
	mu    sync.Mutex
	fills []models.Fill
	err   error
}

func (s *fakeSink) Persist(ctx context.Context, fill models.Fill, mode models.PositionMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.fills = append(s.fills, fill)
	return nil
}

func TestExecutorPersistsSuccessfulFill(t *testing.T) {
	boundary := &fakeBoundary{fill: models.Fill{OrderID: "o1", Pair: "BTCUSDT"}}
	sink := &fakeSink{}
	fills := make(chan models.Fill, 8)
	riskEvents := make(chan models.RiskEvent, 8)
	exec := New(boundary, sink, fills, riskEvents, models.PositionModePaper)

	orders := make(chan models.Order, 1)
	orders <- models.Order{ID: "o1", Pair: "BTCUSDT"}
	close(orders)

	exec.Run(context.Background(), orders)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.fills, 1)
	assert.Equal(t, "o1", sink.fills[0].OrderID)

	select {
	case fill := <-fills:
		assert.Equal(t, "o1", fill.OrderID)
	default:
		t.Fatal("expected fill forwarded to risk manager")
	}
}

func TestExecutorEmitsOrderFailedOnSubmitError(t *testing.T) {
	boundary := &fakeBoundary{err: errors.New("insufficient balance")}
	sink := &fakeSink{}
	fills := make(chan models.Fill, 8)
	riskEvents := make(chan models.RiskEvent, 8)
	exec := New(boundary, sink, fills, riskEvents, models.PositionModeLive)

	orders := make(chan models.Order, 1)
	orders <- models.Order{ID: "o1", Pair: "BTCUSDT"}
	close(orders)

	exec.Run(context.Background(), orders)

	select {
	case evt := <-riskEvents:
		assert.Equal(t, models.RiskEventOrderFailed, evt.Kind)
		assert.Equal(t, "BTCUSDT", evt.Pair)
	case <-time.After(time.Second):
		t.Fatal("expected an OrderFailed event")
	}

	assert.Empty(t, sink.fills)
}

func TestExecutorExitsWhenChannelCloses(t *testing.T) {
	boundary := &fakeBoundary{}
	sink := &fakeSink{}
	fills := make(chan models.Fill, 8)
	riskEvents := make(chan models.RiskEvent, 8)
	exec := New(boundary, sink, fills, riskEvents, models.PositionModePaper)

	orders := make(chan models.Order)
	close(orders)

	done := make(chan struct{})
	go func() {
		exec.Run(context.Background(), orders)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("executor did not exit when channel closed")
	}
}
