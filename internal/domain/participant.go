package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/burnroom/internal/infrastructure/validate"
)

type PresenceStatus string

const (
	StatusTyping  PresenceStatus = "typing"
	StatusOnline  PresenceStatus = "online"
	StatusAway    PresenceStatus = "away"
	StatusOffline PresenceStatus = "offline"
)

type Participant struct {
	ID          string
	DisplayName string
	JoinedAt    time.Time
	LastSeen    time.Time
	IsTyping    bool
	AvatarGlyph string
	ColorTheme  string
}

type ParticipantView struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"displayName"`
	Initials    string         `json:"initials"`
	AvatarGlyph string         `json:"avatarGlyph"`
	ColorTheme  string         `json:"colorTheme"`
	JoinedAt    time.Time      `json:"joinedAt"`
	LastSeen    time.Time      `json:"lastSeen"`
	IsTyping    bool           `json:"isTyping"`
	Status      PresenceStatus `json:"status"`
}

func newParticipant(name string, now time.Time) *Participant {
	p := &Participant{
		ID:       uuid.NewString(),
		JoinedAt: now,
		LastSeen: now,
	}
	p.rename(name)
	return p
}

func (p *Participant) rename(name string) {
	p.DisplayName = name
	p.AvatarGlyph = AvatarFor(name)
	p.ColorTheme = ColorFor(name)
}

func (p *Participant) touch(now time.Time) {
	if now.After(p.LastSeen) {
		p.LastSeen = now
	}
}

// Classify derives the presence label shown to other participants.
// Typing wins over the idle-time buckets.
func Classify(p Participant, now time.Time, policy Policy) PresenceStatus {
	if p.IsTyping {
		return StatusTyping
	}

	idle := now.Sub(p.LastSeen)
	switch {
	case idle < policy.InactiveAfter:
		return StatusOnline
	case idle < policy.AwayAfter:
		return StatusAway
	default:
		return StatusOffline
	}
}

func (p *Participant) view(now time.Time, policy Policy) ParticipantView {
	return ParticipantView{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Initials:    Initials(p.DisplayName),
		AvatarGlyph: p.AvatarGlyph,
		ColorTheme:  p.ColorTheme,
		JoinedAt:    p.JoinedAt,
		LastSeen:    p.LastSeen,
		IsTyping:    p.IsTyping,
		Status:      Classify(*p, now, policy),
	}
}

// normalizeDisplayName trims raw and checks it against the room policy.
// An empty result means the caller supplied no name.
func normalizeDisplayName(raw string, maxLen int) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", nil
	}

	check := validate.Compose(
		validate.MaxLength(maxLen),
		validate.NoControlChars(),
	)
	if err := check(name); err != nil {
		return "", ErrInvalidDisplayName
	}

	return name, nil
}
