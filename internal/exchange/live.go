package exchange

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/google/uuid"

	"github.com/sherwood-core/engine/internal/models"
)

// LiveConfig holds exchange credentials and endpoints for the live
// Boundary implementation.
type LiveConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// LiveExchange submits signed requests against a real exchange through the
// official Binance client. It is the only Boundary variant that places
// real orders.
type LiveExchange struct {
	client *binance.Client
}

// NewLiveExchange constructs a LiveExchange over the official Binance
// client, pointed at cfg.BaseURL (production or testnet).
func NewLiveExchange(cfg LiveConfig) *LiveExchange {
	client := binance.NewClient(cfg.APIKey, cfg.APISecret)
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}
	return &LiveExchange{client: client}
}

// SubmitOrder places the order and returns its first fill's price (or the
// limit price, or 0 for an unfilled market order).
func (e *LiveExchange) SubmitOrder(ctx context.Context, order models.Order) (models.Fill, error) {
	svc := e.client.NewCreateOrderService().
		Symbol(order.Pair).
		Side(sideWire(order.Side)).
		Quantity(formatFloat(order.Quantity))

	if order.IsMarket() {
		svc = svc.Type(binance.OrderTypeMarket)
	} else {
		svc = svc.Type(binance.OrderTypeLimit).
			Price(formatFloat(order.LimitPrice)).
			TimeInForce(binance.TimeInForceTypeGTC)
	}

	resp, err := svc.Do(ctx)
	if err != nil {
		return models.Fill{}, classifyErr("submit_order", err)
	}

	fillPrice := order.LimitPrice
	if len(resp.Fills) > 0 {
		if p, perr := strconv.ParseFloat(resp.Fills[0].Price, 64); perr == nil {
			fillPrice = p
		}
	}

	orderID := order.ID
	if orderID == "" {
		orderID = uuid.NewString()
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

// CurrentPrice performs an unauthenticated ticker lookup.
func (e *LiveExchange) CurrentPrice(ctx context.Context, pair string) (float64, error) {
	prices, err := e.client.NewListPricesService().Symbol(pair).Do(ctx)
	if err != nil {
		return 0, classifyErr("current_price", err)
	}
	if len(prices) == 0 {
		return 0, exchangeErr("current_price", fmt.Errorf("no ticker for %s", pair))
	}
	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, exchangeErr("current_price", err)
	}
	return price, nil
}

// OpenPositions fabricates synthetic positions from spot balances: there
// is no notion of an "open position" in a spot account, only free
// balances. Each non-zero balance becomes a Position with entry_price=0,
// which the risk manager's PnL guard treats as unmonitorable.
func (e *LiveExchange) OpenPositions(ctx context.Context) ([]models.Position, error) {
	account, err := e.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, classifyErr("open_positions", err)
	}

	positions := make([]models.Position, 0, len(account.Balances))
	for _, b := range account.Balances {
		qty, err := strconv.ParseFloat(b.Free, 64)
		if err != nil || qty <= 0 {
			continue
		}
		positions = append(positions, models.Position{
			// No opening order exists for a balance-derived position; the
			// asset name is the closest stable identifier available.
			ID:         b.Asset,
			Pair:       b.Asset,
			Side:       models.OrderSideBuy,
			EntryPrice: 0,
			Quantity:   qty,
			Mode:       models.PositionModeLive,
			OpenedAt:   time.Now(),
		})
	}
	return positions, nil
}

// classifyErr distinguishes an exchange-reported rejection from a plain
// transport failure, based on whether the client surfaced a structured
// Binance API error.
func classifyErr(op string, err error) error {
	var apiErr *binance.APIError
	if errors.As(err, &apiErr) {
		return exchangeErr(op, err)
	}
	return transportErr(op, err)
}

func sideWire(side models.OrderSide) binance.SideType {
	if side == models.OrderSideBuy {
		return binance.SideTypeBuy
	}
	return binance.SideTypeSell
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
