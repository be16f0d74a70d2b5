package sdk

import (
	"context"
	"net/http"
	"time"
)

type RoomService struct {
	Options []RequestOption
}

type RoomSettings struct {
	HistoryDurationHours int  `json:"historyDurationHours"`
	MaxUsers             int  `json:"maxUsers"`
	AllowAnonymous       bool `json:"allowAnonymous"`
}

type Participant struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Initials    string    `json:"initials"`
	AvatarGlyph string    `json:"avatarGlyph"`
	ColorTheme  string    `json:"colorTheme"`
	JoinedAt    time.Time `json:"joinedAt"`
	LastSeen    time.Time `json:"lastSeen"`
	IsTyping    bool      `json:"isTyping"`
	Status      string    `json:"status"`
}

type RoomState struct {
	Code         string        `json:"code"`
	Settings     RoomSettings  `json:"settings"`
	CreatedAt    time.Time     `json:"createdAt"`
	Participants []Participant `json:"participants"`
	Messages     []Message     `json:"messages"`
	ServerTime   time.Time     `json:"serverTime"`
}

type RoomInfo struct {
	Code             string       `json:"code"`
	ParticipantCount int          `json:"participantCount"`
	MaxUsers         int          `json:"maxUsers"`
	CreatedAt        time.Time    `json:"createdAt"`
	Settings         RoomSettings `json:"settings"`
}

// RoomSettingsParams are applied when a join creates the room. Nil fields
// keep the server defaults.
type RoomSettingsParams struct {
	HistoryDurationHours *int  `json:"historyDurationHours,omitempty"`
	MaxUsers             *int  `json:"maxUsers,omitempty"`
	AllowAnonymous       *bool `json:"allowAnonymous,omitempty"`
}

type RoomJoinParams struct {
	DisplayName   string              `json:"displayName,omitempty"`
	ParticipantID string              `json:"participantId,omitempty"`
	Settings      *RoomSettingsParams `json:"settings,omitempty"`
}

// Int returns a pointer to v, for optional params.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional params.
func Bool(v bool) *bool { return &v }

type RoomJoinResponse struct {
	Participant  Participant   `json:"participant"`
	Rejoined     bool          `json:"rejoined"`
	Settings     RoomSettings  `json:"settings"`
	Participants []Participant `json:"participants"`
	Messages     []Message     `json:"messages"`
	CreatedAt    time.Time     `json:"createdAt"`
	ServerTime   time.Time     `json:"serverTime"`
}

// Join creates the room on first use. Reuse the returned participant ID
// (see WithParticipantID) for every later call in the room.
func (r *RoomService) Join(ctx context.Context, code string, params RoomJoinParams, opts ...RequestOption) (*RoomJoinResponse, error) {
	if code == "" {
		return nil, ErrMissingRoomCode
	}

	res := &RoomJoinResponse{}
	opts = append(r.Options[:len(r.Options):len(r.Options)], opts...)
	if err := execute(ctx, http.MethodPost, roomPath(code, "join"), params, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *RoomService) Get(ctx context.Context, code string, opts ...RequestOption) (*RoomInfo, error) {
	if code == "" {
		return nil, ErrMissingRoomCode
	}

	res := &RoomInfo{}
	opts = append(r.Options[:len(r.Options):len(r.Options)], opts...)
	if err := execute(ctx, http.MethodGet, roomPath(code), nil, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *RoomService) Leave(ctx context.Context, code, participantID string, opts ...RequestOption) error {
	if code == "" {
		return ErrMissingRoomCode
	}
	if participantID == "" {
		return ErrMissingParticipantID
	}

	body := map[string]string{"participantId": participantID}
	opts = append(r.Options[:len(r.Options):len(r.Options)], opts...)
	return execute(ctx, http.MethodPost, roomPath(code, "leave"), body, nil, opts)
}
