package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RoomAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomCode  string         `bson:"room_code" json:"roomCode"`
	EventType EventKind      `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	GetByRoomCode(ctx context.Context, roomCode string, limit int) ([]RoomAuditLog, error)
	EnsureIndexes(ctx context.Context) error
}

// Audited reports whether events of kind k end up in the audit trail.
// Message content and typing noise never do.
func Audited(k EventKind) bool {
	switch k {
	case EventRoomCreated, EventRoomDeleted, EventJoinRejected,
		EventParticipantJoined, EventParticipantLeft,
		EventMessageExpired, EventMessageRemoved:
		return true
	default:
		return false
	}
}

// NewAuditLogFromEvent converts e into an audit record, or returns nil when
// e is not audited.
func NewAuditLogFromEvent(e RoomEvent) *RoomAuditLog {
	if !Audited(e.Kind) {
		return nil
	}

	metadata := map[string]any{
		"participant_count": e.ParticipantCount,
	}
	if e.Reason != "" {
		metadata["reason"] = e.Reason
	}
	if e.Participant != nil {
		metadata["participant_id"] = e.Participant.ID
	}
	if len(e.MessageIDs) > 0 {
		metadata["message_count"] = len(e.MessageIDs)
	}
	if e.Settings != nil {
		metadata["history_duration_hours"] = e.Settings.HistoryDurationHours
		metadata["max_users"] = e.Settings.MaxUsers
		metadata["allow_anonymous"] = e.Settings.AllowAnonymous
	}

	ts := e.At
	if ts.IsZero() {
		ts = time.Now()
	}

	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomCode:  e.RoomCode,
		EventType: e.Kind,
		Timestamp: ts,
		Metadata:  metadata,
	}
}
