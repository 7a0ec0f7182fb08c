package models

import "time"

// MarketEvent is one candle update for one pair. Indicators and strategies
// must only consume events with CandleClosed = true; non-closed updates are
// for display/price-cache refresh only.
type MarketEvent struct {
	// Pair is the trading symbol, e.g. "BTCUSDT".
	Pair string `json:"pair"`
	// Close is the current close price.
	Close float64 `json:"close"`
	// Open, High, Low round out the OHLC bar.
	Open float64 `json:"open"`
	High float64 `json:"high"`
	Low  float64 `json:"low"`
	// Volume is the traded volume over the bar.
	Volume float64 `json:"volume"`
	// CandleClosed is true once the bar has finished forming.
	CandleClosed bool `json:"candle_closed"`
	// Timestamp is the candle close time.
	Timestamp time.Time `json:"timestamp"`
}
