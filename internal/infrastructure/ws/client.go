package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 40 * time.Second
	pingPeriod     = 15 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

type Client struct {
	conn          *connWrapper
	send          chan *WSMessage
	ID            string
	RoomCode      string
	ParticipantID string

	mu     sync.RWMutex
	closed bool
}

func NewClient(conn *websocket.Conn, roomCode, participantID string) *Client {
	return &Client{
		conn:          newConnWrapper(conn),
		send:          make(chan *WSMessage, sendBuffer), // buffered to avoid dead-locks on slow clients
		ID:            uuid.NewString(),
		RoomCode:      roomCode,
		ParticipantID: participantID,
	}
}

// Enqueue hands msg to the writer without blocking. It reports false when
// the client is closed or its buffer is full.
func (c *Client) Enqueue(msg *WSMessage) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close stops the writer, which then closes the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump feeds inbound frames to handle until the connection fails.
// Every pong counts as presence through onPong.
func (c *Client) readPump(ctx context.Context, handle func(context.Context, InboundFrame), onPong func()) {
	ws := c.conn.conn
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		if onPong != nil {
			onPong()
		}
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.Enqueue(NewError(c.RoomCode, "invalid_frame", "frame must be a JSON object with a type"))
			continue
		}

		handle(ctx, frame)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, time.Now().Add(writeWait))
				return
			}
			if err := c.conn.WriteJSON(msg, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
