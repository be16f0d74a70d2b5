package sdk

import (
	"context"
	"net/http"
	"time"
)

type MessageService struct {
	Options []RequestOption
}

type Message struct {
	ID                string     `json:"id"`
	AuthorID          string     `json:"authorId"`
	AuthorName        string     `json:"authorName"`
	AuthorAvatar      string     `json:"authorAvatar"`
	AuthorColor       string     `json:"authorColor"`
	Text              string     `json:"text"`
	CreatedAt         time.Time  `json:"createdAt"`
	ViewedBy          []string   `json:"viewedBy"`
	ViewCount         int        `json:"viewCount"`
	TotalParticipants int        `json:"totalParticipants"`
	IsExpired         bool       `json:"isExpired"`
	ExpiredAt         *time.Time `json:"expiredAt,omitempty"`
}

type MessageSendParams struct {
	ParticipantID string `json:"participantId"`
	Text          string `json:"text"`
}

func (m *MessageService) Send(ctx context.Context, code string, params MessageSendParams, opts ...RequestOption) (*Message, error) {
	if code == "" {
		return nil, ErrMissingRoomCode
	}
	if params.ParticipantID == "" {
		return nil, ErrMissingParticipantID
	}

	res := &Message{}
	opts = append(m.Options[:len(m.Options):len(m.Options)], opts...)
	if err := execute(ctx, http.MethodPost, roomPath(code, "messages"), params, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}
