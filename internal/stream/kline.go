package stream

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sherwood-core/engine/internal/models"
)

// klineMessage mirrors the exchange's streaming candle wire format: a
// top-level event-type discriminator plus a nested candle record with
// price fields as strings.
type klineMessage struct {
	EventType string    `json:"e"`
	Symbol    string    `json:"s"`
	Kline     klineData `json:"k"`
}

type klineData struct {
	Open      string `json:"o"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Close     string `json:"c"`
	Volume    string `json:"v"`
	CloseTime int64  `json:"T"`
	IsClosed  bool   `json:"x"`
}

const candleEventType = "kline"

// parseMarketEvent parses a raw exchange message into a MarketEvent. It
// returns ok=false for any non-candle message, which callers must ignore
// rather than treat as an error.
func parseMarketEvent(pair string, raw []byte) (event models.MarketEvent, ok bool, err error) {
	var msg klineMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return models.MarketEvent{}, false, err
	}
	if msg.EventType != candleEventType {
		return models.MarketEvent{}, false, nil
	}

	open, err := strconv.ParseFloat(msg.Kline.Open, 64)
	if err != nil {
		return models.MarketEvent{}, false, fmt.Errorf("parse open: %w", err)
	}
	high, err := strconv.ParseFloat(msg.Kline.High, 64)
	if err != nil {
		return models.MarketEvent{}, false, fmt.Errorf("parse high: %w", err)
	}
	low, err := strconv.ParseFloat(msg.Kline.Low, 64)
	if err != nil {
		return models.MarketEvent{}, false, fmt.Errorf("parse low: %w", err)
	}
	closePrice, err := strconv.ParseFloat(msg.Kline.Close, 64)
	if err != nil {
		return models.MarketEvent{}, false, fmt.Errorf("parse close: %w", err)
	}
	volume, err := strconv.ParseFloat(msg.Kline.Volume, 64)
	if err != nil {
		return models.MarketEvent{}, false, fmt.Errorf("parse volume: %w", err)
	}

	return models.MarketEvent{
		Pair:         pair,
		Open:         open,
		High:         high,
		Low:          low,
		Close:        closePrice,
		Volume:       volume,
		CandleClosed: msg.Kline.IsClosed,
		Timestamp:    time.UnixMilli(msg.Kline.CloseTime),
	}, true, nil
}
