// Package exchange implements the polymorphic order-execution boundary:
// one capability with live (signed HTTPS) and paper (simulated) variants.
// Only the order executor may call Boundary.SubmitOrder.
package exchange

import (
	"context"
	"errors"

	"github.com/sherwood-core/engine/internal/models"
)

// ErrorKind classifies a Boundary failure for uniform handling upstream.
type ErrorKind int

const (
	// KindTransport covers dial/timeout/connection failures.
	KindTransport ErrorKind = iota
	// KindExchange covers a rejection, signature failure, or parse error
	// the exchange itself reported.
	KindExchange
)

// Error is the error type every Boundary implementation returns.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func transportErr(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func exchangeErr(op string, err error) error {
	return &Error{Kind: KindExchange, Op: op, Err: err}
}

// ErrNoPrice is returned by the paper backend when a pair has no cached
// price yet.
var ErrNoPrice = errors.New("no cached price for pair")

// Boundary is the capability every strategy/risk component treats
// opaquely: submit an order, list open positions, read the current price.
// Implementations must be safe for concurrent use.
type Boundary interface {
	SubmitOrder(ctx context.Context, order models.Order) (models.Fill, error)
	OpenPositions(ctx context.Context) ([]models.Position, error)
	CurrentPrice(ctx context.Context, pair string) (float64, error)
}
