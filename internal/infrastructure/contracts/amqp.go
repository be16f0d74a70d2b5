package contracts

import "github.com/hilthontt/burnroom/internal/domain"

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomCode string `json:"roomCode"`
	Data     []byte `json:"data"`
}

// Routing keys mirror the room event kinds.
const (
	EventParticipantJoined = string(domain.EventParticipantJoined)
	EventParticipantLeft   = string(domain.EventParticipantLeft)
	EventMessageSent       = string(domain.EventMessageSent)
	EventTypingChanged     = string(domain.EventTypingChanged)
	EventMessageExpired    = string(domain.EventMessageExpired)
	EventMessageRemoved    = string(domain.EventMessageRemoved)
	EventRoomCreated       = string(domain.EventRoomCreated)
	EventRoomDeleted       = string(domain.EventRoomDeleted)
	EventJoinRejected      = string(domain.EventJoinRejected)
)

// AuditRoutingKeys are the events recorded in the audit trail.
var AuditRoutingKeys = []string{
	EventRoomCreated,
	EventRoomDeleted,
	EventJoinRejected,
	EventParticipantJoined,
	EventParticipantLeft,
	EventMessageExpired,
	EventMessageRemoved,
}
