package ws

import (
	"github.com/hilthontt/burnroom/internal/domain"
)

type WSMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	Data     any    `json:"data"`
}

// InboundFrame is what clients send over the socket.
type InboundFrame struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	IsTyping bool   `json:"isTyping,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func NewRoomState(state domain.RoomState) *WSMessage {
	return &WSMessage{
		Type:     RoomStateEvent,
		RoomCode: state.Code,
		Data:     state,
	}
}

func NewFromEvent(e domain.RoomEvent) *WSMessage {
	return &WSMessage{
		Type:     string(e.Kind),
		RoomCode: e.RoomCode,
		Data:     e,
	}
}

func NewError(roomCode, code, message string) *WSMessage {
	return &WSMessage{
		Type:     ErrorEvent,
		RoomCode: roomCode,
		Data: ErrorPayload{
			Code:    code,
			Message: message,
		},
	}
}
