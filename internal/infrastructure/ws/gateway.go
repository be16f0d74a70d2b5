package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/json"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled by the router
	},
}

// Gateway upgrades HTTP requests into room subscriptions and routes inbound
// frames to the chat service. Closing a socket does not remove the
// participant; presence pruning or an explicit leave does.
type Gateway struct {
	hub     *Hub
	service chat.Service
	logger  logging.Logger
}

func NewGateway(hub *Hub, service chat.Service, logger logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Gateway{hub: hub, service: service, logger: logger}
}

// Serve blocks for the lifetime of the connection.
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, code, participantID string) {
	state, err := g.service.PollRoomState(r.Context(), code, participantID, true)
	if err != nil {
		json.WriteDomainError(w, g.logger, err)
		return
	}
	if !hasParticipant(state, participantID) {
		json.WriteDomainError(w, g.logger, domain.ErrParticipantNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn(logging.Gateway, logging.Websocket, "upgrade failed", map[logging.ExtraKey]any{
			logging.RoomCode:     code,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	// The connection outlives any request deadline.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	cl := NewClient(conn, state.Code, participantID)
	cl.Enqueue(NewRoomState(state))
	g.hub.Register(cl)
	defer g.hub.Unregister(cl)

	g.logger.Debug(logging.Gateway, logging.Websocket, "client connected", map[logging.ExtraKey]any{
		logging.RoomCode:      cl.RoomCode,
		logging.ParticipantID: participantID,
	})

	go cl.writePump()
	cl.readPump(ctx, func(ctx context.Context, frame InboundFrame) {
		g.handleFrame(ctx, cl, frame)
	}, func() {
		_ = g.service.Heartbeat(ctx, cl.RoomCode, cl.ParticipantID)
	})
}

func (g *Gateway) handleFrame(ctx context.Context, cl *Client, frame InboundFrame) {
	var err error

	switch frame.Type {
	case FrameSendMessage:
		_, err = g.service.SendMessage(ctx, cl.RoomCode, cl.ParticipantID, frame.Text)
	case FrameTyping:
		err = g.service.SetTyping(ctx, cl.RoomCode, cl.ParticipantID, frame.IsTyping)
	case FrameHeartbeat:
		err = g.service.Heartbeat(ctx, cl.RoomCode, cl.ParticipantID)
	case FrameAck:
		var state domain.RoomState
		state, err = g.service.PollRoomState(ctx, cl.RoomCode, cl.ParticipantID, true)
		if err == nil {
			cl.Enqueue(NewRoomState(state))
		}
	case FrameLeave:
		err = g.service.Leave(ctx, cl.RoomCode, cl.ParticipantID)
		if err == nil || errors.Is(err, domain.ErrParticipantNotFound) {
			g.hub.Unregister(cl)
			return
		}
	default:
		cl.Enqueue(NewError(cl.RoomCode, "unknown_frame", "unknown frame type: "+frame.Type))
		return
	}

	if err != nil {
		g.replyError(cl, err)
	}
}

func (g *Gateway) replyError(cl *Client, err error) {
	code := domain.Code(err)
	if domain.KindOf(err) == domain.KindUnknown {
		g.logger.Error(logging.Gateway, logging.Websocket, "frame handling failed", map[logging.ExtraKey]any{
			logging.RoomCode:     cl.RoomCode,
			logging.ErrorMessage: err.Error(),
		})
		cl.Enqueue(NewError(cl.RoomCode, code, "the server encountered a problem"))
		return
	}
	cl.Enqueue(NewError(cl.RoomCode, code, domain.ReasonText(err)))
}

func hasParticipant(state domain.RoomState, id string) bool {
	for _, p := range state.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}
