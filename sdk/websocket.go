package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame types sent by the server.
const (
	RoomStateEvent    = "room.state"
	ErrorEvent        = "error"
	ParticipantJoined = "participant.joined"
	ParticipantLeft   = "participant.left"
	MessageSent       = "message.sent"
	TypingChanged     = "typing.changed"
	MessageExpired    = "message.expired"
	MessageRemoved    = "message.removed"
	RoomDeleted       = "room.deleted"
)

// Frame types accepted by the server.
const (
	frameSendMessage = "message.send"
	frameTyping      = "typing"
	frameHeartbeat   = "heartbeat"
	frameAck         = "ack"
	frameLeave       = "leave"
)

var ErrSocketClosed = errors.New("websocket connection is closed")

type WSMessage struct {
	Type     string          `json:"type"`
	RoomCode string          `json:"roomCode"`
	Data     json.RawMessage `json:"data"`
}

// RoomEvent is the payload of every frame except room.state and error.
type RoomEvent struct {
	Kind             string        `json:"kind"`
	RoomCode         string        `json:"roomCode"`
	At               time.Time     `json:"at"`
	Participant      *Participant  `json:"participant,omitempty"`
	Message          *Message      `json:"message,omitempty"`
	MessageIDs       []string      `json:"messageIds,omitempty"`
	Reason           string        `json:"reason,omitempty"`
	ParticipantCount int           `json:"participantCount"`
	Settings         *RoomSettings `json:"settings,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (m WSMessage) State() (*RoomState, error) {
	if m.Type != RoomStateEvent {
		return nil, fmt.Errorf("frame %q is not a room state", m.Type)
	}
	state := &RoomState{}
	return state, json.Unmarshal(m.Data, state)
}

func (m WSMessage) Event() (*RoomEvent, error) {
	if m.Type == RoomStateEvent || m.Type == ErrorEvent {
		return nil, fmt.Errorf("frame %q is not a room event", m.Type)
	}
	event := &RoomEvent{}
	return event, json.Unmarshal(m.Data, event)
}

func (m WSMessage) AsError() (*ErrorPayload, error) {
	if m.Type != ErrorEvent {
		return nil, fmt.Errorf("frame %q is not an error", m.Type)
	}
	payload := &ErrorPayload{}
	return payload, json.Unmarshal(m.Data, payload)
}

type outboundFrame struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	IsTyping bool   `json:"isTyping,omitempty"`
}

type RoomWebSocket struct {
	conn           *websocket.Conn
	roomCode       string
	participantID  string
	mu             sync.RWMutex
	writeMu        sync.Mutex
	closed         bool
	messageHandler func(WSMessage)
}

func (ws *RoomWebSocket) Close() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.closed {
		return nil
	}

	ws.closed = true
	return ws.conn.Close()
}

func (ws *RoomWebSocket) SetMessageHandler(handler func(WSMessage)) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.messageHandler = handler
}

// Listen dispatches frames to the message handler until ctx is done or the
// server closes the connection. The socket is closed on return.
func (ws *RoomWebSocket) Listen(ctx context.Context) error {
	defer ws.Close()

	stop := context.AfterFunc(ctx, func() { _ = ws.Close() })
	defer stop()

	for {
		var msg WSMessage
		if err := ws.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("websocket read error: %w", err)
		}

		ws.mu.RLock()
		handler := ws.messageHandler
		ws.mu.RUnlock()

		if handler != nil {
			handler(msg)
		}
	}
}

func (ws *RoomWebSocket) SendMessage(text string) error {
	return ws.write(outboundFrame{Type: frameSendMessage, Text: text})
}

func (ws *RoomWebSocket) SetTyping(isTyping bool) error {
	return ws.write(outboundFrame{Type: frameTyping, IsTyping: isTyping})
}

func (ws *RoomWebSocket) Heartbeat() error {
	return ws.write(outboundFrame{Type: frameHeartbeat})
}

// Ack asks for a fresh room.state, marking its messages viewed.
func (ws *RoomWebSocket) Ack() error {
	return ws.write(outboundFrame{Type: frameAck})
}

func (ws *RoomWebSocket) Leave() error {
	return ws.write(outboundFrame{Type: frameLeave})
}

func (ws *RoomWebSocket) write(frame outboundFrame) error {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	if ws.closed {
		return ErrSocketClosed
	}

	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()
	return ws.conn.WriteJSON(frame)
}

// Connect subscribes participantID to the room's live feed. The participant
// must have joined first.
func (r *RoomService) Connect(ctx context.Context, code, participantID string, opts ...RequestOption) (*RoomWebSocket, error) {
	if code == "" {
		return nil, ErrMissingRoomCode
	}
	if participantID == "" {
		return nil, ErrMissingParticipantID
	}

	cfg := newRequestConfig(append(r.Options[:len(r.Options):len(r.Options)], opts...))

	wsURL := cfg.baseURL
	if after, ok := strings.CutPrefix(wsURL, "https://"); ok {
		wsURL = "wss://" + after
	} else if after, ok := strings.CutPrefix(wsURL, "http://"); ok {
		wsURL = "ws://" + after
	}

	header := http.Header{}
	header.Set(headerParticipantID, participantID)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL+roomPath(code, "ws"), header)
	if err != nil {
		if resp != nil && resp.StatusCode >= 300 {
			defer resp.Body.Close()
			apiErr := &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
			_ = json.NewDecoder(resp.Body).Decode(apiErr)
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to connect to websocket: %w", err)
	}

	return &RoomWebSocket{
		conn:          conn,
		roomCode:      code,
		participantID: participantID,
	}, nil
}
