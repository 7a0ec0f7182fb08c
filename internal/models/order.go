// Package models provides shared domain types for the trading control
// plane: market events, orders, fills, signals, positions and the
// lifecycle enums that tie the pipeline together.
package models

import "time"

// OrderSide is the direction of an order.
type OrderSide string

const (
	// OrderSideBuy represents a buy order.
	OrderSideBuy OrderSide = "buy"
	// OrderSideSell represents a sell order.
	OrderSideSell OrderSide = "sell"
)

// Opposite returns the other side.
func (s OrderSide) Opposite() OrderSide {
	if s == OrderSideBuy {
		return OrderSideSell
	}
	return OrderSideBuy
}

// Order is an intent to trade, admitted by the risk manager and consumed
// exactly once by the order executor.
type Order struct {
	// ID is the unique identifier for the order.
	ID string `json:"id"`
	// Pair is the trading symbol, e.g. "BTCUSDT".
	Pair string `json:"pair"`
	// Side is buy or sell.
	Side OrderSide `json:"side"`
	// Quantity is the base-asset amount, always > 0.
	Quantity float64 `json:"quantity"`
	// LimitPrice is the limit price. Zero means a market order.
	LimitPrice float64 `json:"limit_price,omitempty"`
}

// IsMarket reports whether the order has no limit price.
func (o Order) IsMarket() bool {
	return o.LimitPrice <= 0
}

// Fill is the executed outcome of an order.
type Fill struct {
	// OrderID is the originating order's id.
	OrderID string `json:"order_id"`
	// Pair is the trading symbol.
	Pair string `json:"pair"`
	// Side is the direction that was filled.
	Side OrderSide `json:"side"`
	// Price is the fill price. The live boundary reports 0 for a market
	// order whose response carries no fill records.
	Price float64 `json:"price"`
	// Quantity is the filled quantity.
	Quantity float64 `json:"quantity"`
	// Timestamp is when the fill was recorded.
	Timestamp time.Time `json:"timestamp"`
}
