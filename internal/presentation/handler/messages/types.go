package messages

// sendMessageRequest posts a message as the given participant
type sendMessageRequest struct {
	ParticipantID string `json:"participantId" example:"550e8400-e29b-41d4-a716-446655440000"` // Author; header or cookie may carry it instead
	Text          string `json:"text" example:"this will self-destruct"`                          // 1 to 500 characters after trimming
}
