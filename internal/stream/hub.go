// Package stream ingests exchange market data and fans it out to every
// interested consumer (strategy registry, risk manager) without ever
// blocking the connection that feeds it.
package stream

import (
	"sync"

	"github.com/sherwood-core/engine/internal/models"
)

// DefaultCapacity is the per-subscriber buffer size mandated for the
// market-event fan-out.
const DefaultCapacity = 1024

// Envelope wraps a MarketEvent with the count of events this subscriber
// lost before it, so the subscriber can resynchronise instead of
// mistaking a gap for contiguous history.
type Envelope struct {
	Event   models.MarketEvent
	Dropped int
}

type subscriber struct {
	ch      chan Envelope
	pending int
	mu      sync.Mutex
}

// Hub is a bounded, lossy-from-the-tail broadcast of MarketEvents. A slow
// subscriber never blocks the publisher: once its buffer fills, new events
// are dropped for that subscriber and the drop count accumulates until the
// subscriber catches up, at which point the next delivered Envelope carries
// the accumulated count.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewHub constructs an empty fan-out hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscription is a consumer's read-only handle on the hub.
type Subscription struct {
	hub *Hub
	sub *subscriber
}

// Subscribe registers a new consumer and returns its channel.
func (h *Hub) Subscribe() *Subscription {
	sub := &subscriber{ch: make(chan Envelope, DefaultCapacity)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return &Subscription{hub: h, sub: sub}
}

// C returns the channel to read envelopes from.
func (s *Subscription) C() <-chan Envelope {
	return s.sub.ch
}

// Unsubscribe removes the subscription from the hub and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	delete(s.hub.subs, s.sub)
	s.hub.mu.Unlock()
	close(s.sub.ch)
}

// Publish delivers event to every current subscriber. It never blocks: a
// subscriber whose buffer is full has the event dropped and its pending
// count incremented instead.
func (h *Hub) Publish(event models.MarketEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		sub.mu.Lock()
		dropped := sub.pending
		select {
		case sub.ch <- Envelope{Event: event, Dropped: dropped}:
			sub.pending = 0
		default:
			sub.pending++
		}
		sub.mu.Unlock()
	}
}

// Subscribers reports the current subscriber count, for diagnostics.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
