package domain

import "time"

type EventKind string

const (
	EventParticipantJoined EventKind = "participant.joined"
	EventParticipantLeft   EventKind = "participant.left"
	EventMessageSent       EventKind = "message.sent"
	EventTypingChanged     EventKind = "typing.changed"
	EventMessageExpired    EventKind = "message.expired"
	EventMessageRemoved    EventKind = "message.removed"
	EventRoomDeleted       EventKind = "room.deleted"

	// Lifecycle kinds below are recorded but never pushed to clients.
	EventRoomCreated  EventKind = "room.created"
	EventJoinRejected EventKind = "room.join_rejected"
)

// Reasons attached to participant.left, message.removed and room.deleted.
const (
	ReasonLeft     = "left"
	ReasonInactive = "inactive"
	ReasonTTL      = "ttl"
	ReasonExpired  = "expired"
	ReasonIdle     = "idle"
	ReasonRejoined = "rejoined"
	ReasonRoomFull = "room_full"
)

// RoomEvent describes one state change of a room. Room methods return
// events instead of publishing them so nothing is called under the lock.
type RoomEvent struct {
	Kind             EventKind        `json:"kind"`
	RoomCode         string           `json:"roomCode"`
	At               time.Time        `json:"at"`
	Participant      *ParticipantView `json:"participant,omitempty"`
	Message          *MessageView     `json:"message,omitempty"`
	MessageIDs       []string         `json:"messageIds,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	ParticipantCount int              `json:"participantCount"`
	Settings         *RoomSettings    `json:"settings,omitempty"`
}

// Broadcast reports whether connected clients should receive the event.
func (e RoomEvent) Broadcast() bool {
	switch e.Kind {
	case EventRoomCreated, EventJoinRejected:
		return false
	default:
		return true
	}
}

// ExpiredMessageIDs returns the ids flagged by message.expired events in events.
func ExpiredMessageIDs(events []RoomEvent) []string {
	var ids []string
	for _, e := range events {
		if e.Kind == EventMessageExpired {
			ids = append(ids, e.MessageIDs...)
		}
	}
	return ids
}

func messageIDs(ms []*Message) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}
