package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	connected    int
	disconnected int
}

func (o *countingObserver) ClientConnected()    { o.connected++ }
func (o *countingObserver) ClientDisconnected() { o.disconnected++ }

func newTestClient(code string, buffer int) *Client {
	return &Client{
		send:     make(chan *WSMessage, buffer),
		ID:       code + "-" + time.Now().Format(time.RFC3339Nano),
		RoomCode: code,
	}
}

func TestRoomManager_BroadcastDropsOnFullBuffer(t *testing.T) {
	rm := NewRoomManager()
	fast := newTestClient("abc", 4)
	slow := newTestClient("abc", 1)
	slow.ID = "slow"
	rm.AddClient(fast)
	rm.AddClient(slow)

	msg := &WSMessage{Type: "message.sent", RoomCode: "abc"}

	dropped, err := rm.BroadcastToRoom(msg)
	require.NoError(t, err)
	assert.Zero(t, dropped)

	dropped, err = rm.BroadcastToRoom(msg)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Len(t, fast.send, 2)
}

func TestRoomManager_UnknownRoom(t *testing.T) {
	rm := NewRoomManager()
	_, err := rm.BroadcastToRoom(&WSMessage{RoomCode: "nobody"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestClient_EnqueueAfterClose(t *testing.T) {
	cl := newTestClient("abc", 1)
	cl.Close()
	cl.Close()

	assert.True(t, cl.IsClosed())
	assert.False(t, cl.Enqueue(&WSMessage{}))
}

func TestHub_NotifySkipsPrivateEvents(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Notify(context.Background(), []domain.RoomEvent{
		{Kind: domain.EventRoomCreated, RoomCode: "abc"},
		{Kind: domain.EventJoinRejected, RoomCode: "abc"},
		{Kind: domain.EventMessageSent, RoomCode: "abc"},
	})
	assert.Len(t, hub.broadcast, 1)
}

func TestHub_RoomDeletedDisconnectsClients(t *testing.T) {
	obs := &countingObserver{}
	hub := NewHub(nil, obs)
	cl := newTestClient("abc", 4)
	hub.Register(cl)

	hub.deliver(NewFromEvent(domain.RoomEvent{Kind: domain.EventRoomDeleted, RoomCode: "abc"}))

	assert.True(t, cl.IsClosed())
	assert.Zero(t, hub.ClientCount("abc"))

	hub.Unregister(cl)
	assert.Equal(t, 1, obs.connected)
	assert.Zero(t, obs.disconnected)
}

type gatewayFixture struct {
	service chat.Service
	hub     *Hub
	server  *httptest.Server
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	hub := NewHub(nil, nil)
	svc := chat.NewService(chat.Options{
		Registry: repository.NewRoomRegistry(10, domain.DefaultPolicy()),
		Notifier: hub,
	})
	gw := NewGateway(hub, svc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.Run(ctx) }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gw.Serve(w, r, r.URL.Query().Get("code"), r.URL.Query().Get("pid"))
	}))

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return &gatewayFixture{service: svc, hub: hub, server: srv}
}

func (f *gatewayFixture) dial(t *testing.T, code, pid string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "?code=" + code + "&pid=" + pid
	return websocket.DefaultDialer.Dial(url, nil)
}

func readUntil(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var frame map[string]any
		require.NoError(t, json.Unmarshal(raw, &frame))
		if frame["type"] == typ {
			return frame
		}
	}
}

func TestGateway_StateThenBroadcast(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()

	alice, err := f.service.JoinRoom(ctx, chat.JoinInput{Code: "lobby", DisplayName: "alice"})
	require.NoError(t, err)

	conn, _, err := f.dial(t, "lobby", alice.Participant.ID)
	require.NoError(t, err)
	defer conn.Close()

	state := readUntil(t, conn, RoomStateEvent)
	assert.Equal(t, "lobby", state["roomCode"])

	require.Eventually(t, func() bool { return f.hub.ClientCount("lobby") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(InboundFrame{Type: FrameSendMessage, Text: "hello"}))

	sent := readUntil(t, conn, string(domain.EventMessageSent))
	data := sent["data"].(map[string]any)
	message := data["message"].(map[string]any)
	assert.Equal(t, "hello", message["text"])
}

func TestGateway_InvalidFrameGetsError(t *testing.T) {
	f := newGatewayFixture(t)

	alice, err := f.service.JoinRoom(context.Background(), chat.JoinInput{Code: "lobby", DisplayName: "alice"})
	require.NoError(t, err)

	conn, _, err := f.dial(t, "lobby", alice.Participant.ID)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(InboundFrame{Type: FrameSendMessage, Text: "   "}))

	frame := readUntil(t, conn, ErrorEvent)
	data := frame["data"].(map[string]any)
	assert.Equal(t, "empty_or_too_long", data["code"])
}

func TestGateway_RejectsUnknownParticipant(t *testing.T) {
	f := newGatewayFixture(t)

	_, err := f.service.JoinRoom(context.Background(), chat.JoinInput{Code: "lobby", DisplayName: "alice"})
	require.NoError(t, err)

	_, resp, err := f.dial(t, "lobby", "stranger")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGateway_RejectsMissingRoom(t *testing.T) {
	f := newGatewayFixture(t)

	_, resp, err := f.dial(t, "nowhere", "someone")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
