package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"investigation-server/internal/events"
	"investigation-server/internal/game"
	"investigation-server/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEventsWebSocket(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.svc.On("GetSession", mock.Anything, env.player, id).Return(game.View{ID: id}, nil)

	srv := httptest.NewServer(env.e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id.String() + "/events?token=" + env.token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return env.hub.Connected(id) }, time.Second, 10*time.Millisecond)

	other := events.Event{Type: events.DayAdvanced, SessionID: uuid.New()}
	ev := events.Event{Type: events.PhotoTaken, SessionID: id, PlayerID: env.player, At: time.Now().UTC()}
	require.NoError(t, env.hub.Publish(context.Background(), other, ev))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var got events.Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, events.PhotoTaken, got.Type)
	assert.Equal(t, id, got.SessionID)

	env.hub.CloseSession(id)
	require.Eventually(t, func() bool { return !env.hub.Connected(id) }, time.Second, 10*time.Millisecond)
}

func TestEventsWebSocketRejectsForeignSession(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.svc.On("GetSession", mock.Anything, env.player, id).Return(game.View{}, models.ErrForbidden)

	srv := httptest.NewServer(env.e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id.String() + "/events?token=" + env.token
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHubReplacesConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	id := uuid.New()
	first := newClient(id, uuid.New(), nil)
	second := newClient(id, uuid.New(), nil)
	require.True(t, hub.Register(first))
	require.True(t, hub.Register(second))

	_, open := <-first.send
	assert.False(t, open, "replaced client queue is closed")

	// отписка вытесненного клиента не трогает нового
	hub.Unregister(first)
	assert.True(t, hub.Connected(id))

	require.NoError(t, hub.Publish(ctx, events.Event{Type: events.ZoomStarted, SessionID: id}))
	assert.Len(t, second.send, 1)

	cancel()
	<-done
	assert.False(t, hub.Connected(id))
	assert.False(t, hub.Register(newClient(id, uuid.New(), nil)))
}
