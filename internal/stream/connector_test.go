package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectorDeliversParsedEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		msg := []byte(`{"e":"kline","k":{"o":"1","h":"1","l":"1","c":"1.5","v":"1","T":1700000000000,"x":true}}`)
		_ = conn.WriteMessage(websocket.TextMessage, msg)
		time.Sleep(50 * time.Millisecond)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(50 * time.Millisecond)
	}))
	defer server.Close()

	wsURL := toWSURL(t, server.URL)
	hub := NewHub()
	sub := hub.Subscribe()

	c := NewConnector("BTCUSDT", "1m", func(pair, interval string) string { return wsURL }, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	select {
	case env := <-sub.C():
		assert.InDelta(t, 1.5, env.Event.Close, 1e-9)
	case <-time.After(3 * time.Second):
		t.Fatal("did not receive market event in time")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("connector did not exit after cancel")
	}
}

func toWSURL(t *testing.T, httpURL string) string {
	t.Helper()
	u, err := url.Parse(httpURL)
	require.NoError(t, err)
	u.Scheme = "ws"
	return u.String()
}
