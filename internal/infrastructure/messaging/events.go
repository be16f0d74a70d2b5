package messaging

import "github.com/hilthontt/burnroom/internal/domain"

const (
	AuditQueue      = "room_audit"
	DeadLetterQueue = "dead_letter_queue"
)

type RoomEventData struct {
	Event domain.RoomEvent `json:"event"`
}
