package strategy

import (
	"github.com/sherwood-core/engine/internal/indicators"
	"github.com/sherwood-core/engine/internal/models"
)

// MACDStrategy emits Buy on a bullish MACD/signal crossover, Sell on
// bearish, and nothing on neutral.
type MACDStrategy struct {
	base
	cfg indicators.MACDConfig
}

// NewMACDStrategy constructs a MACD strategy. Zero-valued fields in cfg
// fall back to the documented defaults.
func NewMACDStrategy(name, pair string, quantity float64, cfg indicators.MACDConfig) *MACDStrategy {
	def := indicators.DefaultMACDConfig()
	if cfg.Fast == 0 {
		cfg.Fast = def.Fast
	}
	if cfg.Slow == 0 {
		cfg.Slow = def.Slow
	}
	if cfg.Signal == 0 {
		cfg.Signal = def.Signal
	}
	return &MACDStrategy{base: base{name: name, pair: pair, quantity: quantity}, cfg: cfg}
}

func (s *MACDStrategy) Evaluate(closes []float64) (models.Signal, bool) {
	crossover, ok := indicators.MACD(closes, s.cfg.Fast, s.cfg.Slow, s.cfg.Signal)
	if !ok {
		return models.Signal{}, false
	}

	switch crossover {
	case indicators.CrossoverBullish:
		return models.Signal{
			Pair:         s.pair,
			Type:         models.SignalBuy,
			Quantity:     s.quantity,
			StrategyName: s.name,
			Reason:       "MACD bullish crossover",
		}, true
	case indicators.CrossoverBearish:
		return models.Signal{
			Pair:         s.pair,
			Type:         models.SignalSell,
			Quantity:     s.quantity,
			StrategyName: s.name,
			Reason:       "MACD bearish crossover",
		}, true
	default:
		return models.Signal{}, false
	}
}
