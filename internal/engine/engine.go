// Package engine drives the lifecycle state machine: it consumes operator
// commands, transitions EngineState, and owns the per-pair market stream
// tasks that Start spawns and Stop aborts.
package engine

import (
	"context"
	"sync"

	"github.com/sherwood-core/engine/internal/models"
	"github.com/sherwood-core/engine/internal/stream"
	"github.com/sherwood-core/engine/internal/tracing"
)

// Engine owns the EngineState transitions and the set of live per-pair
// stream tasks. It is driven entirely by a command.Source; it never
// initiates state changes on its own except relaying what it is told.
type Engine struct {
	state    *models.StateHandle
	pairs    []string
	interval string
	hub      *stream.Hub
	buildURL stream.URLBuilder

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs an Engine. state must already hold models.Stopped.
func New(state *models.StateHandle, pairs []string, interval string, buildURL stream.URLBuilder, hub *stream.Hub) *Engine {
	return &Engine{
		state:    state,
		pairs:    pairs,
		interval: interval,
		hub:      hub,
		buildURL: buildURL,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Run drains commands until the channel closes or ctx is cancelled,
// applying each to the state machine. It emits RiskEventDrawdownHaltExited
// on a successful ResetDrawdown so the alert surface reflects recovery.
func (e *Engine) Run(ctx context.Context, commands <-chan models.EngineCommand, riskEvents chan<- models.RiskEvent) {
	log := tracing.Logger(ctx)
	defer e.stopAll()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-commands:
			if !ok {
				log.Info().Msg("command channel closed, engine exiting")
				return
			}
			e.apply(ctx, cmd, riskEvents)
		}
	}
}

func (e *Engine) apply(ctx context.Context, cmd models.EngineCommand, riskEvents chan<- models.RiskEvent) {
	log := tracing.Logger(ctx)
	current := e.state.Get()

	switch cmd {
	case models.CmdStart:
		if current != models.Stopped {
			log.Info().Str("command", cmd.String()).Str("state", current.String()).Msg("no-op transition")
			return
		}
		e.startAll(ctx)
		e.state.Set(models.Running)

	case models.CmdStop:
		if current != models.Running && current != models.Paused {
			log.Info().Str("command", cmd.String()).Str("state", current.String()).Msg("no-op transition")
			return
		}
		e.stopAll()
		e.state.Set(models.Stopped)

	case models.CmdPause:
		if !e.state.CompareAndSet(models.Running, models.Paused) {
			log.Info().Str("command", cmd.String()).Str("state", current.String()).Msg("no-op transition")
		}

	case models.CmdResume:
		if !e.state.CompareAndSet(models.Paused, models.Running) {
			log.Info().Str("command", cmd.String()).Str("state", current.String()).Msg("no-op transition")
		}

	case models.CmdResetDrawdown:
		if !e.state.CompareAndSet(models.Halted, models.Running) {
			log.Info().Str("command", cmd.String()).Str("state", current.String()).Msg("no-op transition")
			return
		}
		e.emit(ctx, riskEvents, models.RiskEvent{Kind: models.RiskEventDrawdownHaltExited})

	default:
		log.Warn().Int("command", int(cmd)).Msg("unknown command")
	}
}

func (e *Engine) startAll(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, pair := range e.pairs {
		pairCtx, cancel := context.WithCancel(ctx)
		e.cancels[pair] = cancel
		conn := stream.NewConnector(pair, e.interval, e.buildURL, e.hub)

		e.wg.Add(1)
		go func(pair string) {
			defer e.wg.Done()
			conn.Run(pairCtx)
		}(pair)
	}
}

func (e *Engine) stopAll() {
	e.mu.Lock()
	for _, cancel := range e.cancels {
		cancel()
	}
	e.cancels = make(map[string]context.CancelFunc)
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *Engine) emit(ctx context.Context, riskEvents chan<- models.RiskEvent, evt models.RiskEvent) {
	select {
	case riskEvents <- evt:
	case <-ctx.Done():
	}
}
