package presence

// pollRequest identifies the viewer acknowledging what it receives
type pollRequest struct {
	ParticipantID string `json:"participantId" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// heartbeatRequest keeps a participant active between polls
type heartbeatRequest struct {
	ParticipantID string `json:"participantId" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// typingRequest sets or clears the typing indicator
type typingRequest struct {
	ParticipantID string `json:"participantId" example:"550e8400-e29b-41d4-a716-446655440000"`
	IsTyping      bool   `json:"isTyping" example:"true"`
}

type okResponse struct {
	OK bool `json:"ok" example:"true"`
}
