package strategy

import (
	"fmt"

	"github.com/sherwood-core/engine/internal/indicators"
	"github.com/sherwood-core/engine/internal/models"
)

// RSIStrategy emits Buy when RSI falls to or below its oversold level and
// Sell when it rises to or above its overbought level.
type RSIStrategy struct {
	base
	cfg indicators.RSIConfig
}

// NewRSIStrategy constructs an RSI strategy. Zero-valued fields in cfg
// fall back to the documented defaults.
func NewRSIStrategy(name, pair string, quantity float64, cfg indicators.RSIConfig) *RSIStrategy {
	if cfg.Period == 0 {
		cfg.Period = indicators.DefaultRSIConfig().Period
	}
	if cfg.Overbought == 0 {
		cfg.Overbought = indicators.DefaultRSIConfig().Overbought
	}
	if cfg.Oversold == 0 {
		cfg.Oversold = indicators.DefaultRSIConfig().Oversold
	}
	return &RSIStrategy{base: base{name: name, pair: pair, quantity: quantity}, cfg: cfg}
}

func (s *RSIStrategy) Evaluate(closes []float64) (models.Signal, bool) {
	value, ok := indicators.RSI(closes, s.cfg.Period)
	if !ok {
		return models.Signal{}, false
	}

	switch {
	case value <= s.cfg.Oversold:
		return models.Signal{
			Pair:         s.pair,
			Type:         models.SignalBuy,
			Quantity:     s.quantity,
			StrategyName: s.name,
			Reason:       fmt.Sprintf("RSI %.2f <= oversold %.2f", value, s.cfg.Oversold),
		}, true
	case value >= s.cfg.Overbought:
		return models.Signal{
			Pair:         s.pair,
			Type:         models.SignalSell,
			Quantity:     s.quantity,
			StrategyName: s.name,
			Reason:       fmt.Sprintf("RSI %.2f >= overbought %.2f", value, s.cfg.Overbought),
		}, true
	default:
		return models.Signal{}, false
	}
}
