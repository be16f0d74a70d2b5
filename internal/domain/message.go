package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/burnroom/internal/infrastructure/validate"
)

type Message struct {
	ID           string
	AuthorID     string
	AuthorName   string
	AuthorAvatar string
	AuthorColor  string
	Text         string
	CreatedAt    time.Time
	IsExpired    bool
	ExpiredAt    time.Time

	viewedBy map[string]struct{}
}

type MessageView struct {
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

func newMessage(author *Participant, text string, now time.Time, maxLen int) (*Message, error) {
	check := validate.Compose(validate.Required(), validate.MaxLength(maxLen))
	if err := check(text); err != nil {
		return nil, ErrEmptyOrTooLong
	}

	return &Message{
		ID:           uuid.NewString(),
		AuthorID:     author.ID,
		AuthorName:   author.DisplayName,
		AuthorAvatar: author.AvatarGlyph,
		AuthorColor:  author.ColorTheme,
		Text:         text,
		CreatedAt:    now,
		viewedBy:     map[string]struct{}{author.ID: {}},
	}, nil
}

func (m *Message) ViewCount() int {
	return len(m.viewedBy)
}

func (m *Message) markViewed(id string) bool {
	if m.IsExpired {
		return false
	}
	if _, ok := m.viewedBy[id]; ok {
		return false
	}
	m.viewedBy[id] = struct{}{}
	return true
}

// seenByAll reports whether every id in active has viewed the message.
func (m *Message) seenByAll(active map[string]struct{}) bool {
	for id := range active {
		if _, ok := m.viewedBy[id]; !ok {
			return false
		}
	}
	return true
}

func (m *Message) graceElapsed(now time.Time, grace time.Duration) bool {
	return m.IsExpired && now.Sub(m.ExpiredAt) >= grace
}

func (m *Message) view(total int) MessageView {
	viewers := make([]string, 0, len(m.viewedBy))
	for id := range m.viewedBy {
		viewers = append(viewers, id)
	}
	sort.Strings(viewers)

	v := MessageView{
		ID:                m.ID,
		AuthorID:          m.AuthorID,
		AuthorName:        m.AuthorName,
		AuthorAvatar:      m.AuthorAvatar,
		AuthorColor:       m.AuthorColor,
		Text:              m.Text,
		CreatedAt:         m.CreatedAt,
		ViewedBy:          viewers,
		ViewCount:         len(viewers),
		TotalParticipants: total,
		IsExpired:         m.IsExpired,
	}
	if m.IsExpired {
		at := m.ExpiredAt
		v.ExpiredAt = &at
	}
	return v
}
