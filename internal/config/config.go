// Package config loads engine configuration from environment variables
// and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// TradingMode selects which exchange.Boundary implementation backs order
// execution.
type TradingMode string

const (
	// ModePaper routes orders through the simulated exchange.
	ModePaper TradingMode = "paper"
	// ModeLive routes orders through a real, signed exchange connection.
	ModeLive TradingMode = "live"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
	"panic": true, "disabled": true,
}

// ValidationError aggregates every configuration problem found so an
// operator can fix them all in one pass rather than one restart at a time.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d configuration error(s):\n  - %s", len(e.Errors), strings.Join(e.Errors, "\n  - "))
}

// Config holds every setting the engine needs at startup.
type Config struct {
	TradingMode TradingMode
	Pairs       []string
	Interval    string

	StrategyFile string
	DatabasePath string
	LogLevel     string

	ExchangeBaseURL  string
	ExchangeAPIKey   string
	ExchangeSecret   string
	StreamURLPattern string

	InitialPortfolioUSD    float64
	PaperSlippageBps       float64
	StopLossPct            float64
	TakeProfitPct          float64
	MaxExposurePerTradeUSD float64
	MaxDrawdownPct         float64

	ShutdownTimeout time.Duration

	AlertAddr string
}

// Load reads a .env file (if present) then environment variables into a
// Config, validating the result before returning it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TradingMode: TradingMode(getEnv("TRADING_MODE", "paper")),
		Pairs:       splitCSV(getEnv("PAIRS", "BTCUSDT")),
		Interval:    getEnv("CANDLE_INTERVAL", "1m"),

		StrategyFile: getEnv("STRATEGY_CONFIG_FILE", "strategies.yaml"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/engine.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		ExchangeBaseURL:  getEnv("EXCHANGE_BASE_URL", "https://api.binance.com"),
		ExchangeAPIKey:   os.Getenv("EXCHANGE_API_KEY"),
		ExchangeSecret:   os.Getenv("EXCHANGE_API_SECRET"),
		StreamURLPattern: getEnv("EXCHANGE_STREAM_URL", "wss://stream.binance.com:9443/ws/%s@kline_%s"),

		InitialPortfolioUSD:    getEnvFloat("INITIAL_PORTFOLIO_USD", 10_000),
		PaperSlippageBps:       getEnvFloat("PAPER_SLIPPAGE_BPS", 10),
		StopLossPct:            getEnvFloat("STOP_LOSS_PCT", 0.02),
		TakeProfitPct:          getEnvFloat("TAKE_PROFIT_PCT", 0.04),
		MaxExposurePerTradeUSD: getEnvFloat("MAX_EXPOSURE_PER_TRADE_USD", 100),
		MaxDrawdownPct:         getEnvFloat("MAX_DRAWDOWN_PCT", 0.10),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		AlertAddr:       getEnv("ALERT_LISTEN_ADDR", ":8090"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks every field and aggregates every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.TradingMode != ModePaper && c.TradingMode != ModeLive {
		errs = append(errs, fmt.Sprintf("invalid TRADING_MODE %q: must be 'paper' or 'live'", c.TradingMode))
	}
	if len(c.Pairs) == 0 {
		errs = append(errs, "PAIRS must list at least one trading pair")
	}
	if c.StrategyFile == "" {
		errs = append(errs, "STRATEGY_CONFIG_FILE must not be empty")
	}
	if c.DatabasePath == "" {
		errs = append(errs, "DATABASE_PATH must not be empty")
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("invalid LOG_LEVEL %q", c.LogLevel))
	}
	if c.TradingMode == ModeLive {
		if c.ExchangeAPIKey == "" {
			errs = append(errs, "live mode requires EXCHANGE_API_KEY")
		}
		if c.ExchangeSecret == "" {
			errs = append(errs, "live mode requires EXCHANGE_API_SECRET")
		}
	}
	if c.MaxDrawdownPct <= 0 || c.MaxDrawdownPct >= 1 {
		errs = append(errs, "MAX_DRAWDOWN_PCT must be between 0 and 1")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func (c *Config) IsLive() bool { return c.TradingMode == ModeLive }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
