// Package alert streams risk events to connected operator clients over
// WebSocket.
package alert

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sherwood-core/engine/internal/models"
)

// Sink publishes one risk event. The single-consumer alert forwarder is
// the only caller.
type Sink interface {
	Publish(evt models.RiskEvent)
}

// Message is the envelope delivered to every connected operator client.
type Message struct {
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   models.RiskEvent `json:"payload"`
}

// Broadcaster fans risk events out to every connected operator over
// WebSocket. Clients are written to one at a time; a write that fails or
// does not finish within 10 seconds disconnects that client.
type Broadcaster struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
	upgrader   websocket.Upgrader
}

var _ Sink = (*Broadcaster)(nil)

// NewBroadcaster constructs a Broadcaster. Call Run in its own goroutine
// before serving HandleWebSocket.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run drives registration, unregistration and broadcast until events
// closes.
func (b *Broadcaster) Run(events <-chan models.RiskEvent) {
	for {
		select {
		case conn := <-b.register:
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()
			log.Info().Msg("alert client connected")

		case conn := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[conn]; ok {
				delete(b.clients, conn)
				conn.Close()
				log.Info().Msg("alert client disconnected")
			}
			b.mu.Unlock()

		case evt, ok := <-events:
			if !ok {
				b.closeAll()
				return
			}
			b.Publish(evt)
		}
	}
}

// Publish implements Sink: it fans evt out to every connected client.
func (b *Broadcaster) Publish(evt models.RiskEvent) {
	msg := Message{Type: string(evt.Kind), Timestamp: time.Now(), Payload: evt}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			log.Error().Err(err).Msg("failed to write to alert client, closing connection")
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}

// ServeHTTP lets a Broadcaster be mounted directly as an http.Handler.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.HandleWebSocket(w, r)
}

// HandleWebSocket upgrades an HTTP connection and registers it as an
// operator client. It returns once the client disconnects.
func (b *Broadcaster) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade alert websocket")
		return
	}
	b.register <- conn

	defer func() {
		b.unregister <- conn
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("alert websocket closed unexpectedly")
			}
			return
		}
	}
}
