package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteer-match-server/models"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWebSocket(hub, w, r, 42, string(models.RoleCSR))
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *gorilla.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var m Message
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestHub_BroadcastsRequestEvents(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.True(t, hub.IsUserConnected(42))

	b := NewRequestBroadcaster(hub)
	b.RequestCreated(&models.HelpRequest{ID: 7, Title: "Groceries", Status: models.RequestStatusOpen})

	m := readMessage(t, conn)
	assert.Equal(t, EventRequestCreated, m.Type)
	data, ok := m.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(7), data["request_id"])
	assert.Equal(t, "open", data["status"])

	b.RequestMatched(&models.MatchEntry{ID: 3, RequestID: 7, CSRID: 42})
	m = readMessage(t, conn)
	assert.Equal(t, EventRequestMatched, m.Type)
}

func TestHub_PingPongAndDisconnect(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", readMessage(t, conn).Type)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestRequestBroadcaster_NilHub(t *testing.T) {
	var b *RequestBroadcaster
	assert.NotPanics(t, func() { b.RequestDeleted(1) })
	assert.NotPanics(t, func() { NewRequestBroadcaster(nil).RequestUpdated(&models.HelpRequest{}) })
}
