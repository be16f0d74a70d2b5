package audit

import "github.com/hilthontt/burnroom/internal/domain"

// auditLogResponse lists a room's lifecycle records, newest first
type auditLogResponse struct {
	RoomCode string                `json:"roomCode" example:"lobby"`
	Entries  []domain.RoomAuditLog `json:"entries"`
}
