package alert

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherwood-core/engine/internal/models"
)

func TestBroadcasterDeliversEventToConnectedClient(t *testing.T) {
	b := NewBroadcaster()
	events := make(chan models.RiskEvent, 8)
	go b.Run(events)

	server := httptest.NewServer(b)
	defer server.Close()

	conn := dialAlert(t, server.URL)
	defer conn.Close()

	time.Sleep(20 * time.Millisecond)
	events <- models.RiskEvent{Kind: models.RiskEventStopLossTriggered, Pair: "BTCUSDT"}

	var msg Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, string(models.RiskEventStopLossTriggered), msg.Type)
	assert.Equal(t, "BTCUSDT", msg.Payload.Pair)
}

func TestBroadcasterClosesClientsWhenChannelCloses(t *testing.T) {
	b := NewBroadcaster()
	events := make(chan models.RiskEvent)
	done := make(chan struct{})
	go func() {
		b.Run(events)
		close(done)
	}()

	server := httptest.NewServer(b)
	defer server.Close()

	conn := dialAlert(t, server.URL)
	defer conn.Close()
	time.Sleep(20 * time.Millisecond)

	close(events)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not exit after events channel closed")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "server should have closed the connection")
}

func dialAlert(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()
	u, err := url.Parse(httpURL)
	require.NoError(t, err)
	u.Scheme = "ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	return conn
}
