package ws

import (
	"context"
	"errors"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
)

const broadcastBuffer = 256

// ConnObserver is told about every client that connects or disconnects.
type ConnObserver interface {
	ClientConnected()
	ClientDisconnected()
}

// Hub fans room events out to connected clients. Broadcasts go through a
// single loop so every client of a room sees them in publish order.
type Hub struct {
	rooms     *RoomManager
	broadcast chan *WSMessage
	observer  ConnObserver
	logger    logging.Logger
}

func NewHub(logger logging.Logger, observer ConnObserver) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		rooms:     NewRoomManager(),
		broadcast: make(chan *WSMessage, broadcastBuffer),
		observer:  observer,
		logger:    logger,
	}
}

// Run delivers broadcasts until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) error {
	defer h.Shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) deliver(msg *WSMessage) {
	dropped, err := h.rooms.BroadcastToRoom(msg)
	if err != nil && !errors.Is(err, ErrRoomNotFound) {
		h.logger.Warn(logging.Gateway, logging.Websocket, "broadcast failed", map[logging.ExtraKey]any{
			logging.RoomCode:     msg.RoomCode,
			logging.ErrorMessage: err.Error(),
		})
	}
	if dropped > 0 {
		h.logger.Warn(logging.Gateway, logging.Websocket, "slow clients missed an event", map[logging.ExtraKey]any{
			logging.RoomCode: msg.RoomCode,
			logging.Count:    dropped,
		})
	}

	if msg.Type == string(domain.EventRoomDeleted) {
		h.rooms.DisconnectRoom(msg.RoomCode)
	}
}

// Notify queues broadcastable events without blocking the publisher.
// Events that do not fit in the buffer are dropped; clients recover on their next ack.
func (h *Hub) Notify(_ context.Context, events []domain.RoomEvent) {
	for _, e := range events {
		if !e.Broadcast() {
			continue
		}

		select {
		case h.broadcast <- NewFromEvent(e):
		default:
			h.logger.Warn(logging.Gateway, logging.Publish, "broadcast buffer full, event dropped", map[logging.ExtraKey]any{
				logging.RoomCode: e.RoomCode,
			})
		}
	}
}

func (h *Hub) Register(cl *Client) {
	h.rooms.AddClient(cl)
	if h.observer != nil {
		h.observer.ClientConnected()
	}
}

func (h *Hub) Unregister(cl *Client) {
	if h.rooms.RemoveClient(cl) && h.observer != nil {
		h.observer.ClientDisconnected()
	}
}

// Shutdown closes every connected client.
func (h *Hub) Shutdown() {
	n := h.rooms.DisconnectAll()
	if h.observer != nil {
		for range n {
			h.observer.ClientDisconnected()
		}
	}
	if n > 0 {
		h.logger.Info(logging.Gateway, logging.Shutdown, "disconnected websocket clients", map[logging.ExtraKey]any{
			logging.Count: n,
		})
	}
}

func (h *Hub) ClientCount(code string) int {
	return h.rooms.ClientCount(code)
}
