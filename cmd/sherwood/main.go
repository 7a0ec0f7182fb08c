// Command sherwood is the entry point for the trading control plane. It
// wires configuration, the exchange boundary, the strategy registry, the
// risk manager, the order executor, the alert broadcaster, and the
// engine lifecycle together, then waits for an interrupt.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sherwood-core/engine/internal/alert"
	"github.com/sherwood-core/engine/internal/command"
	"github.com/sherwood-core/engine/internal/config"
	"github.com/sherwood-core/engine/internal/engine"
	"github.com/sherwood-core/engine/internal/exchange"
	"github.com/sherwood-core/engine/internal/executor"
	"github.com/sherwood-core/engine/internal/models"
	"github.com/sherwood-core/engine/internal/persistence"
	"github.com/sherwood-core/engine/internal/risk"
	"github.com/sherwood-core/engine/internal/strategy"
	"github.com/sherwood-core/engine/internal/stream"
	"github.com/sherwood-core/engine/internal/tracing"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("starting sherwood trading engine")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsLive() {
		log.Warn().Msg("LIVE TRADING MODE - real money at risk")
	} else {
		log.Info().Msg("paper trading mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = tracing.WithTraceID(ctx, tracing.NewTraceID())

	store, err := persistence.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open fill store")
	}
	defer store.Close()

	fileCfg, err := strategy.LoadFile(cfg.StrategyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load strategy configuration")
	}
	strategies, err := strategy.Build(fileCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build strategies")
	}

	state := models.NewStateHandle(models.Stopped)
	registry := strategy.NewRegistry(state, 0, strategies...)

	var boundary exchange.Boundary
	var paper *exchange.PaperExchange
	if cfg.IsLive() {
		boundary = exchange.NewLiveExchange(exchange.LiveConfig{
			APIKey:    cfg.ExchangeAPIKey,
			APISecret: cfg.ExchangeSecret,
			BaseURL:   cfg.ExchangeBaseURL,
		})
	} else {
		paper = exchange.NewPaperExchange(cfg.InitialPortfolioUSD, cfg.PaperSlippageBps)
		boundary = paper
	}

	commands := make(chan models.EngineCommand, 32)
	signals := make(chan models.Signal, 128)
	orders := make(chan models.Order, 128)
	fills := make(chan models.Fill, 64)
	riskEvents := make(chan models.RiskEvent, 64)

	hub := stream.NewHub()

	mode := positionMode(cfg)
	positions := models.NewPositionBook()

	riskCfg := risk.Config{
		StopLossPct:            cfg.StopLossPct,
		TakeProfitPct:          cfg.TakeProfitPct,
		MaxExposurePerTradeUSD: cfg.MaxExposurePerTradeUSD,
		MaxDrawdownPct:         cfg.MaxDrawdownPct,
		InitialPortfolioUSD:    cfg.InitialPortfolioUSD,
	}
	riskManager := risk.NewManager(riskCfg, state, positions, mode, orders, riskEvents)

	exec := executor.New(boundary, store, fills, riskEvents, mode)

	broadcaster := alert.NewBroadcaster()
	dispatch := func(env stream.Envelope) {
		if env.Dropped > 0 {
			log.Warn().Int("dropped", env.Dropped).Str("pair", env.Event.Pair).Msg("strategy dispatcher lagged, events dropped")
		}
		if mode == models.PositionModePaper && paper != nil {
			paper.UpdatePrice(env.Event.Pair, env.Event.Close)
		}
		for _, sig := range registry.HandleEvent(env.Event) {
			select {
			case signals <- sig:
			case <-ctx.Done():
			}
		}
	}

	buildURL := func(pair, interval string) string {
		return fmt.Sprintf(cfg.StreamURLPattern, strings.ToLower(pair), interval)
	}
	eng := engine.New(state, cfg.Pairs, cfg.Interval, buildURL, hub)

	riskSub := hub.Subscribe()
	defer riskSub.Unsubscribe()
	dispatchSub := hub.Subscribe()
	defer dispatchSub.Unsubscribe()

	go func() {
		for env := range dispatchSub.C() {
			dispatch(env)
		}
	}()

	go riskManager.Run(ctx, signals, riskSub.C(), fills)
	go exec.Run(ctx, orders)
	go broadcaster.Run(riskEvents)
	go eng.Run(ctx, commands, riskEvents)

	cmdSource := command.NewStdinSource(ctx, os.Stdin)
	go func() {
		for cmd := range cmdSource.Commands() {
			select {
			case commands <- cmd:
			case <-ctx.Done():
				return
			}
		}
	}()

	alertServer := &http.Server{
		Addr:    cfg.AlertAddr,
		Handler: broadcaster,
	}
	go func() {
		log.Info().Str("addr", cfg.AlertAddr).Msg("alert websocket listening")
		if err := alertServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("alert server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := alertServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("alert server forced to shutdown")
	}

	log.Info().Msg("shutdown complete")
}

func positionMode(cfg *config.Config) models.PositionMode {
	if cfg.IsLive() {
		return models.PositionModeLive
	}
	return models.PositionModePaper
}

