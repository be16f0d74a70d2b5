package rooms

import (
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
)

// joinRoomRequest joins (or creates) the room named in the path
type joinRoomRequest struct {
	DisplayName   string                `json:"displayName" example:"alice"`                                     // Optional when the room allows anonymous users
	ParticipantID string                `json:"participantId" example:"550e8400-e29b-41d4-a716-446655440000"` // Identity claimed by a returning participant
	Settings      *domain.SettingsPatch `json:"settings,omitempty"`                                              // Applied only when the join creates the room; omitted fields keep the defaults
}

// joinRoomResponse is the joining participant plus the room snapshot
type joinRoomResponse struct {
	Participant  domain.ParticipantView   `json:"participant"`
	Rejoined     bool                     `json:"rejoined" example:"false"` // True when the claimed identity was recognised
	Settings     domain.RoomSettings      `json:"settings"`
	Participants []domain.ParticipantView `json:"participants"`
	Messages     []domain.MessageView     `json:"messages"`
	CreatedAt    time.Time                `json:"createdAt" example:"2024-01-01T12:00:00Z"`
	ServerTime   time.Time                `json:"serverTime" example:"2024-01-01T12:00:00Z"`
}

// leaveRoomRequest names the participant leaving when no header or cookie does
type leaveRoomRequest struct {
	ParticipantID string `json:"participantId" example:"550e8400-e29b-41d4-a716-446655440000"`
}
