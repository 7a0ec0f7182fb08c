package strategy

import (
	"sync"

	"github.com/sherwood-core/engine/internal/models"
)

// DefaultMaxHistory is the default per-pair rolling window length.
const DefaultMaxHistory = 200

// Registry owns every configured strategy instance and the per-pair
// rolling close-price history they read from.
type Registry struct {
	maxHistory int
	state      *models.StateHandle

	byPair map[string][]Strategy

	historyMu sync.Mutex
	history   map[string][]float64
}

// NewRegistry constructs an empty registry. maxHistory<=0 uses the default.
func NewRegistry(state *models.StateHandle, maxHistory int, strategies ...Strategy) *Registry {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	r := &Registry{
		maxHistory: maxHistory,
		state:      state,
		byPair:     make(map[string][]Strategy),
		history:    make(map[string][]float64),
	}
	for _, s := range strategies {
		r.byPair[s.Pair()] = append(r.byPair[s.Pair()], s)
	}
	return r
}

// HandleEvent acts only while the engine is Running and only on closed
// candles: it appends the close to the pair's rolling history, then
// evaluates every strategy that watches the pair. Any other event is
// dropped silently: no history update, no signals.
func (r *Registry) HandleEvent(event models.MarketEvent) []models.Signal {
	if r.state.Get() != models.Running {
		return nil
	}
	if !event.CandleClosed {
		return nil
	}

	r.appendHistory(event.Pair, event.Close)

	strategies, ok := r.byPair[event.Pair]
	if !ok {
		return nil
	}

	closes := r.snapshotHistory(event.Pair)
	var signals []models.Signal
	for _, s := range strategies {
		if signal, emit := s.Evaluate(closes); emit {
			signals = append(signals, signal)
		}
	}
	return signals
}

func (r *Registry) appendHistory(pair string, close float64) {
	r.historyMu.Lock()
	defer r.historyMu.Unlock()
	window := append(r.history[pair], close)
	if len(window) > r.maxHistory {
		window = window[len(window)-r.maxHistory:]
	}
	r.history[pair] = window
}

func (r *Registry) snapshotHistory(pair string) []float64 {
	r.historyMu.Lock()
	defer r.historyMu.Unlock()
	closes := make([]float64, len(r.history[pair]))
	copy(closes, r.history[pair])
	return closes
}
