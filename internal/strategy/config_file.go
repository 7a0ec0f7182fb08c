package strategy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sherwood-core/engine/internal/indicators"
)

// FileConfig is the declarative strategy configuration document: a
// top-level "strategy" array, each entry a type/name/pair/quantity plus
// free-form params.
type FileConfig struct {
	Strategies []EntryConfig `yaml:"strategy"`
}

// EntryConfig is one configured strategy instance.
type EntryConfig struct {
	Type     string                 `yaml:"type"`
	Name     string                 `yaml:"name"`
	Pair     string                 `yaml:"pair"`
	Quantity float64                `yaml:"quantity"`
	Params   map[string]interface{} `yaml:"params"`
}

// LoadFile reads and parses a strategy configuration file from disk.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read strategy config: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse strategy config: %w", err)
	}
	return cfg, nil
}

// Build instantiates every strategy declared in a FileConfig. An
// unrecognized type name is a fatal configuration error, per §6.
func Build(cfg FileConfig) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(cfg.Strategies))
	for _, entry := range cfg.Strategies {
		s, err := buildOne(entry)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

func buildOne(entry EntryConfig) (Strategy, error) {
	switch entry.Type {
	case "rsi":
		return NewRSIStrategy(entry.Name, entry.Pair, entry.Quantity, indicators.RSIConfig{
			Period:     paramInt(entry.Params, "period", 0),
			Overbought: paramFloat(entry.Params, "overbought", 0),
			Oversold:   paramFloat(entry.Params, "oversold", 0),
		}), nil
	case "macd":
		return NewMACDStrategy(entry.Name, entry.Pair, entry.Quantity, indicators.MACDConfig{
			Fast:   paramInt(entry.Params, "fast", 0),
			Slow:   paramInt(entry.Params, "slow", 0),
			Signal: paramInt(entry.Params, "signal", 0),
		}), nil
	default:
		return nil, fmt.Errorf("unknown strategy type: %q (available: rsi, macd)", entry.Type)
	}
}

func paramInt(params map[string]interface{}, key string, fallback int) int {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return fallback
	}
}

func paramFloat(params map[string]interface{}, key string, fallback float64) float64 {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return fallback
	}
}
