package stream

import (
	"context"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"

	"github.com/sherwood-core/engine/internal/tracing"
)

// URLBuilder produces the streaming endpoint for a pair and candle
// interval. Kept as a function so tests can supply a local server without
// depending on exchange DNS.
type URLBuilder func(pair, interval string) string

// Connector runs one long-lived ingestion task for a single pair. It
// dials the exchange's streaming endpoint, parses candle messages, and
// publishes MarketEvents onto the hub. It never blocks on a slow
// subscriber: that's the hub's job.
type Connector struct {
	Pair     string
	Interval string
	BuildURL URLBuilder
	Hub      *Hub
	Dial     func(ctx context.Context, rawURL string) (*websocket.Conn, error)
}

// NewConnector builds a Connector using the real gorilla/websocket dialer.
func NewConnector(pair, interval string, buildURL URLBuilder, hub *Hub) *Connector {
	return &Connector{
		Pair:     pair,
		Interval: interval,
		BuildURL: buildURL,
		Hub:      hub,
		Dial: func(ctx context.Context, rawURL string) (*websocket.Conn, error) {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
			return conn, err
		},
	}
}

// Run drives the reconnect loop until ctx is cancelled. Backoff starts at
// 1s, doubles to a cap of 60s on transport errors, and resets to 1s
// (followed by a flat 1s pause) after any clean session close.
func (c *Connector) Run(ctx context.Context) {
	log := tracing.Logger(tracing.WithPair(ctx, c.Pair))
	b := &backoff.Backoff{Min: time.Second, Max: 60 * time.Second, Factor: 2}

	target := c.BuildURL(c.Pair, c.Interval)
	if _, err := url.Parse(target); err != nil {
		log.Error().Err(err).Str("url", target).Msg("invalid stream url")
		return
	}

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.Dial(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("stream dial failed, backing off")
			sleep(ctx, b.Duration())
			continue
		}

		clean := c.readLoop(ctx, conn, log)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		if clean {
			b.Reset()
			sleep(ctx, time.Second)
		} else {
			sleep(ctx, b.Duration())
		}
	}
}

// readLoop consumes messages from conn until it errors or ctx is
// cancelled. It returns true if the session ended with a clean close.
func (c *Connector) readLoop(ctx context.Context, conn *websocket.Conn, log zerolog.Logger) bool {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info().Msg("stream session closed cleanly")
				return true
			}
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("stream transport error")
			}
			return false
		}

		event, ok, err := parseMarketEvent(c.Pair, raw)
		if err != nil {
			log.Warn().Err(err).Msg("skipping unparseable market message")
			continue
		}
		if !ok {
			continue
		}
		c.Hub.Publish(event)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
