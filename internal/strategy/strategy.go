// Package strategy owns the collection of configured trading strategies,
// their per-pair rolling price history, and dispatch of market events to
// the strategies that care about them.
package strategy

import "github.com/sherwood-core/engine/internal/models"

// Strategy evaluates accumulated close-price history for its pair and
// optionally returns a Signal. Implementations must be stateless over
// history: the registry supplies the full window on every call.
type Strategy interface {
	Name() string
	Pair() string
	Quantity() float64
	// Evaluate inspects closes (oldest first) and returns a signal, or
	// ok=false when no trade is warranted.
	Evaluate(closes []float64) (signal models.Signal, ok bool)
}

// base holds the fields shared by every concrete strategy.
type base struct {
	name     string
	pair     string
	quantity float64
}

func (b base) Name() string      { return b.name }
func (b base) Pair() string      { return b.pair }
func (b base) Quantity() float64 { return b.quantity }
