package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sherwood-core/engine/internal/models"
)

// PaperExchange is a self-contained simulated exchange: no network calls,
// no real money. It holds an in-memory position ledger and a
// latest-known-price cache keyed by pair.
type PaperExchange struct {
	mu             sync.Mutex
	initialBalance float64
	slippageBps    float64
	positions      []models.Position
	latestPrices   map[string]float64
}

// NewPaperExchange constructs a paper exchange with the given informational
// starting balance and slippage in basis points.
func NewPaperExchange(initialBalance, slippageBps float64) *PaperExchange {
	return &PaperExchange{
		initialBalance: initialBalance,
		slippageBps:    slippageBps,
		latestPrices:   make(map[string]float64),
	}
}

// UpdatePrice records the latest known price for a pair. Intended to be
// driven from the market-event fan-out.
func (p *PaperExchange) UpdatePrice(pair string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latestPrices[pair] = price
}

// SubmitOrder fills immediately at the cached mid price adjusted by
// slippage: Buy pays up, Sell gives up, both by slippageBps.
func (p *PaperExchange) SubmitOrder(ctx context.Context, order models.Order) (models.Fill, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	mid, ok := p.latestPrices[order.Pair]
	if !ok {
		return models.Fill{}, exchangeErr("submit_order", ErrNoPrice)
	}

	var fillPrice float64
	if order.Side == models.OrderSideBuy {
		fillPrice = mid * (1 + p.slippageBps/10_000)
	} else {
		fillPrice = mid * (1 - p.slippageBps/10_000)
	}

	orderID := order.ID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	switch order.Side {
	case models.OrderSideBuy:
		p.positions = append(p.positions, models.Position{
			ID:         orderID,
			Pair:       order.Pair,
			Side:       models.OrderSideBuy,
			EntryPrice: fillPrice,
			Quantity:   order.Quantity,
			Mode:       models.PositionModePaper,
			OpenedAt:   time.Now(),
		})
	case models.OrderSideSell:
		for i, pos := range p.positions {
			if pos.Pair == order.Pair {
				p.positions = append(p.positions[:i], p.positions[i+1:]...)
				break
			}
		}
	}

	return models.Fill{
		OrderID:   orderID,
		Pair:      order.Pair,
		Side:      order.Side,
		Price:     fillPrice,
		Quantity:  order.Quantity,
		Timestamp: time.Now(),
	}, nil
}

// OpenPositions returns a snapshot of the current position ledger.
func (p *PaperExchange) OpenPositions(ctx context.Context) ([]models.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Position, len(p.positions))
	copy(out, p.positions)
	return out, nil
}

// CurrentPrice returns the cached price for pair, or ErrNoPrice.
func (p *PaperExchange) CurrentPrice(ctx context.Context, pair string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	price, ok := p.latestPrices[pair]
	if !ok {
		return 0, exchangeErr("current_price", ErrNoPrice)
	}
	return price, nil
}
