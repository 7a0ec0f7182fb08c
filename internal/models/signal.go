package models

// SignalType is the direction a strategy recommends.
type SignalType string

const (
	// SignalBuy recommends opening or adding to a long.
	SignalBuy SignalType = "buy"
	// SignalSell recommends opening a short or closing a long.
	SignalSell SignalType = "sell"
)

// Signal is a strategy's recommendation, produced on candle close and
// consumed by the risk manager. It may be rejected.
type Signal struct {
	// Pair is the trading symbol the signal applies to.
	Pair string `json:"pair"`
	// Type is buy or sell.
	Type SignalType `json:"type"`
	// Quantity is the base-asset amount the strategy wants to trade.
	Quantity float64 `json:"quantity"`
	// StrategyName identifies the emitting strategy, for logging and events.
	StrategyName string `json:"strategy_name"`
	// Reason is a short human-readable justification, for logging.
	Reason string `json:"reason,omitempty"`
}
