package sdk

import (
	"context"
	"net/http"
)

type PresenceService struct {
	Options []RequestOption
}

type participantBody struct {
	ParticipantID string `json:"participantId"`
	IsTyping      bool   `json:"isTyping,omitempty"`
}

// Poll fetches the room state and marks every returned message as viewed
// by participantID.
func (p *PresenceService) Poll(ctx context.Context, code, participantID string, opts ...RequestOption) (*RoomState, error) {
	return p.state(ctx, http.MethodPost, code, participantID, opts)
}

// Peek is Poll without acknowledging anything.
func (p *PresenceService) Peek(ctx context.Context, code, participantID string, opts ...RequestOption) (*RoomState, error) {
	opts = append(opts, WithHeader(headerParticipantID, participantID))
	return p.state(ctx, http.MethodGet, code, participantID, opts)
}

func (p *PresenceService) state(ctx context.Context, method, code, participantID string, opts []RequestOption) (*RoomState, error) {
	if code == "" {
		return nil, ErrMissingRoomCode
	}
	if participantID == "" {
		return nil, ErrMissingParticipantID
	}

	var body any
	if method == http.MethodPost {
		body = participantBody{ParticipantID: participantID}
	}

	res := &RoomState{}
	opts = append(p.Options[:len(p.Options):len(p.Options)], opts...)
	if err := execute(ctx, method, roomPath(code, "poll"), body, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *PresenceService) Heartbeat(ctx context.Context, code, participantID string, opts ...RequestOption) error {
	return p.post(ctx, code, "heartbeat", participantBody{ParticipantID: participantID}, opts)
}

func (p *PresenceService) Typing(ctx context.Context, code, participantID string, isTyping bool, opts ...RequestOption) error {
	return p.post(ctx, code, "typing", participantBody{ParticipantID: participantID, IsTyping: isTyping}, opts)
}

func (p *PresenceService) post(ctx context.Context, code, action string, body participantBody, opts []RequestOption) error {
	if code == "" {
		return ErrMissingRoomCode
	}
	if body.ParticipantID == "" {
		return ErrMissingParticipantID
	}

	opts = append(p.Options[:len(p.Options):len(p.Options)], opts...)
	return execute(ctx, http.MethodPost, roomPath(code, action), body, nil, opts)
}
