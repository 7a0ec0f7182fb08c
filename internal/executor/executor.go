// Package executor drains admitted orders and is the only caller of the
// exchange boundary's submit_order operation.
package executor

import (
	"context"

	"github.com/sherwood-core/engine/internal/exchange"
	"github.com/sherwood-core/engine/internal/models"
	"github.com/sherwood-core/engine/internal/tracing"
)

// FillSink persists a confirmed fill. It must be idempotent on the fill's
// order id: a duplicate id is a no-op, never an error.
type FillSink interface {
	Persist(ctx context.Context, fill models.Fill, mode models.PositionMode) error
}

// Executor drains the approved-orders channel and submits each to the
// exchange boundary, persisting successful fills, forwarding them to the
// risk manager so it can update the shared open-positions book, and
// reporting failures as risk events. It never retries internally.
type Executor struct {
	boundary   exchange.Boundary
	sink       FillSink
	fills      chan<- models.Fill
	riskEvents chan<- models.RiskEvent
	mode       models.PositionMode
}

// New constructs an Executor. fills carries every confirmed fill on to
// the risk manager.
func New(boundary exchange.Boundary, sink FillSink, fills chan<- models.Fill, riskEvents chan<- models.RiskEvent, mode models.PositionMode) *Executor {
	return &Executor{boundary: boundary, sink: sink, fills: fills, riskEvents: riskEvents, mode: mode}
}

// Run drains orders until the channel closes or ctx is cancelled.
func (e *Executor) Run(ctx context.Context, orders <-chan models.Order) {
	log := tracing.Logger(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-orders:
			if !ok {
				log.Info().Msg("order channel closed, executor exiting")
				return
			}
			e.handle(ctx, order)
		}
	}
}

func (e *Executor) handle(ctx context.Context, order models.Order) {
	log := tracing.Logger(tracing.WithPair(ctx, order.Pair))

	fill, err := e.boundary.SubmitOrder(ctx, order)
	if err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("order submission failed")
		e.emitFailure(ctx, order.Pair, err)
		return
	}

	if err := e.sink.Persist(ctx, fill, e.mode); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to persist fill")
	}

	select {
	case e.fills <- fill:
	case <-ctx.Done():
	}
}

func (e *Executor) emitFailure(ctx context.Context, pair string, err error) {
	select {
	case e.riskEvents <- models.RiskEvent{Kind: models.RiskEventOrderFailed, Pair: pair, Err: err.Error()}:
	case <-ctx.Done():
	}
}
