// Package risk is the central arbiter between strategy signals and the
// order executor: one instance, sole writer of approved orders, serial
// evaluation of every admission and monitoring rule.
package risk

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sherwood-core/engine/internal/models"
	"github.com/sherwood-core/engine/internal/stream"
)

// Manager evaluates every incoming Signal against the admission pipeline
// and every MarketEvent against open-position stop-loss/take-profit and
// portfolio drawdown rules. It is the only component constructed with the
// send end of the order channel, and the sole writer of the shared
// open-positions book.
type Manager struct {
	cfg       Config
	state     *models.StateHandle
	positions *models.PositionBook
	mode      models.PositionMode
	orders    chan<- models.Order
	events    chan<- models.RiskEvent

	priceMu sync.Mutex
	prices  map[string]float64

	portfolioMu sync.Mutex
	value       float64
	peak        float64
}

// NewManager constructs a Manager. orders and riskEvents must be the sole
// channels of their kind in the wiring graph. positions is the shared
// open-positions handle: the Manager is its only writer, inserting on a
// confirmed opening fill (see Run) and removing on stop-loss/take-profit
// close. mode tags positions the Manager inserts as live or paper.
func NewManager(cfg Config, state *models.StateHandle, positions *models.PositionBook, mode models.PositionMode, orders chan<- models.Order, riskEvents chan<- models.RiskEvent) *Manager {
	return &Manager{
		cfg:       cfg,
		state:     state,
		positions: positions,
		mode:      mode,
		orders:    orders,
		events:    riskEvents,
		prices:    make(map[string]float64),
		value:     cfg.InitialPortfolioUSD,
		peak:      cfg.InitialPortfolioUSD,
	}
}

// Run processes signals, market events and confirmed fills until ctx is
// cancelled or all three input channels close. Exactly one input is
// handled per loop iteration, so rule evaluation is serialized; Go's
// select gives fair alternation between ready sources.
func (m *Manager) Run(ctx context.Context, signals <-chan models.Signal, marketEvents <-chan stream.Envelope, fills <-chan models.Fill) {
	for signals != nil || marketEvents != nil || fills != nil {
		select {
		case <-ctx.Done():
			return

		case sig, ok := <-signals:
			if !ok {
				signals = nil
				continue
			}
			m.handleSignal(ctx, sig)

		case env, ok := <-marketEvents:
			if !ok {
				marketEvents = nil
				continue
			}
			m.handleEvent(ctx, env.Event)

		case fill, ok := <-fills:
			if !ok {
				fills = nil
				continue
			}
			m.handleFill(fill)
		}
	}
}

func (m *Manager) handleSignal(ctx context.Context, sig models.Signal) {
	if m.state.Get() == models.Halted {
		m.reject(ctx, sig, models.RejectDrawdownHalt)
		return
	}

	if m.positions.Len() >= MaxOpenOrders {
		m.reject(ctx, sig, models.RejectHardCeilingReached)
		return
	}

	m.priceMu.Lock()
	price := m.prices[sig.Pair]
	m.priceMu.Unlock()

	if price > 0 {
		notional := sig.Quantity * price
		if notional > m.cfg.MaxExposurePerTradeUSD {
			m.reject(ctx, sig, models.RejectExposureLimitExceeded)
			return
		}
	}

	order := models.Order{
		ID:       uuid.NewString(),
		Pair:     sig.Pair,
		Side:     sideFromSignal(sig.Type),
		Quantity: sig.Quantity,
	}
	m.sendOrder(ctx, order)
}

func (m *Manager) handleEvent(ctx context.Context, event models.MarketEvent) {
	m.priceMu.Lock()
	m.prices[event.Pair] = event.Close
	m.priceMu.Unlock()

	for _, pos := range m.positions.Snapshot() {
		if pos.Pair != event.Pair || pos.EntryPrice <= 0 {
			continue
		}
		pnlPct := pos.PnLPct(event.Close)
		switch {
		case pnlPct <= -m.cfg.StopLossPct:
			m.closePosition(ctx, pos, event.Close, pnlPct, models.RiskEventStopLossTriggered)
		case pnlPct >= m.cfg.TakeProfitPct:
			m.closePosition(ctx, pos, event.Close, pnlPct, models.RiskEventTakeProfitTriggered)
		}
	}

	m.checkDrawdown(ctx)
}

// handleFill records a confirmed opening fill in the shared positions
// book. Closing fills need no action here: closePosition already removed
// the position synchronously when it decided to close, ahead of
// execution confirmation.
func (m *Manager) handleFill(fill models.Fill) {
	if fill.Side != models.OrderSideBuy {
		return
	}
	m.positions.Insert(models.Position{
		ID:         fill.OrderID,
		Pair:       fill.Pair,
		Side:       models.OrderSideBuy,
		EntryPrice: fill.Price,
		Quantity:   fill.Quantity,
		Mode:       m.mode,
		OpenedAt:   fill.Timestamp,
	})
}

func (m *Manager) closePosition(ctx context.Context, pos models.Position, price, pnlPct float64, kind models.RiskEventKind) {
	order := models.Order{
		ID:       uuid.NewString(),
		Pair:     pos.Pair,
		Side:     pos.Side.Opposite(),
		Quantity: pos.Quantity,
	}
	m.sendOrder(ctx, order)
	m.positions.RemoveByID(pos.ID)

	m.portfolioMu.Lock()
	m.value += pnlPct * pos.EntryPrice * pos.Quantity
	if m.value > m.peak {
		m.peak = m.value
	}
	m.portfolioMu.Unlock()

	m.emit(ctx, models.RiskEvent{Kind: kind, Pair: pos.Pair, ClosePrice: price})
}

func (m *Manager) checkDrawdown(ctx context.Context) {
	m.portfolioMu.Lock()
	value, peak := m.value, m.peak
	if value > peak {
		peak = value
		m.peak = peak
	}
	m.portfolioMu.Unlock()

	if peak <= 0 {
		return
	}
	drawdown := (peak - value) / peak
	if drawdown >= m.cfg.MaxDrawdownPct && m.state.Get() != models.Halted {
		m.state.Set(models.Halted)
		m.emit(ctx, models.RiskEvent{Kind: models.RiskEventDrawdownHaltEntered, DrawdownPct: drawdown})
	}
}

func (m *Manager) reject(ctx context.Context, sig models.Signal, reason models.RejectReason) {
	m.emit(ctx, models.RiskEvent{Kind: models.RiskEventOrderRejected, Signal: sig, Reason: reason})
}

func (m *Manager) sendOrder(ctx context.Context, order models.Order) {
	select {
	case m.orders <- order:
	case <-ctx.Done():
	}
}

func (m *Manager) emit(ctx context.Context, event models.RiskEvent) {
	select {
	case m.events <- event:
	case <-ctx.Done():
	}
}

func sideFromSignal(t models.SignalType) models.OrderSide {
	if t == models.SignalBuy {
		return models.OrderSideBuy
	}
	return models.OrderSideSell
}
