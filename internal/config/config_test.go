package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		TradingMode:    ModePaper,
		Pairs:          []string{"BTCUSDT"},
		StrategyFile:   "strategies.yaml",
		DatabasePath:   "./data/engine.db",
		LogLevel:       "info",
		MaxDrawdownPct: 0.10,
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadTradingMode(t *testing.T) {
	cfg := validConfig()
	cfg.TradingMode = "yolo"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRADING_MODE")
}

func TestValidateLiveModeRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.TradingMode = ModeLive
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXCHANGE_API_KEY")
	assert.Contains(t, err.Error(), "EXCHANGE_API_SECRET")
}

func TestValidateAggregatesMultipleErrors(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Greater(t, len(ve.Errors), 1)
}

func TestValidateRejectsOutOfRangeDrawdown(t *testing.T) {
	cfg := validConfig()
	cfg.MaxDrawdownPct = 1.5
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_DRAWDOWN_PCT")
}
