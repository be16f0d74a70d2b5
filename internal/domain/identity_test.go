package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerivedAttributesAreDeterministic(t *testing.T) {
	assert.Equal(t, ColorFor("Alice"), ColorFor("Alice"))
	assert.Equal(t, AvatarFor("Alice"), AvatarFor("Alice"))
	assert.Contains(t, colorThemes, ColorFor("Bob"))
	assert.Contains(t, avatarGlyphs, AvatarFor("Bob"))
	assert.Contains(t, colorThemes, ColorFor(""))
}

func TestNameHash(t *testing.T) {
	// "ab" = 98 + 31*97
	assert.Equal(t, int64(3105), nameHash("ab", 0))
	assert.NotEqual(t, nameHash("ab", 0), nameHash("ab", glyphSeed))
}

func TestNameHash_LongNamesDoNotWrap(t *testing.T) {
	assert.Equal(t, int64(-2563438889), nameHash("Christopher", 0))
	assert.Equal(t, "blue", ColorFor("Christopher"))
	assert.Equal(t, "red", ColorFor("Alice"))
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"alice":           "A",
		"Alice Smith":     "AS",
		"ann marie jones": "AM",
		"":                "",
		"  élan  vital ":  "ÉV",
	}
	for in, want := range tests {
		assert.Equal(t, want, Initials(in), in)
	}
}

func TestClassify(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Now()

	tests := []struct {
		name string
		p    Participant
		want PresenceStatus
	}{
		{name: "fresh", p: Participant{LastSeen: now}, want: StatusOnline},
		{name: "idle 29s", p: Participant{LastSeen: now.Add(-29 * time.Second)}, want: StatusOnline},
		{name: "idle 30s", p: Participant{LastSeen: now.Add(-30 * time.Second)}, want: StatusAway},
		{name: "idle 5m", p: Participant{LastSeen: now.Add(-5 * time.Minute)}, want: StatusOffline},
		{name: "typing wins", p: Participant{LastSeen: now.Add(-time.Hour), IsTyping: true}, want: StatusTyping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.p, now, policy))
		})
	}
}

func TestErrorClassification(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrRoomNotFound))
	assert.Equal(t, "participant_not_found", Code(ErrParticipantNotFound))
	assert.Equal(t, "room not found", ReasonText(fmt.Errorf("poll lobby: %w", ErrRoomNotFound)))
	assert.Empty(t, ReasonText(assert.AnError))
	assert.Equal(t, KindUnknown, KindOf(assert.AnError))
	assert.Equal(t, "internal_error", Code(assert.AnError))
}

func TestNewAuditLogFromEvent(t *testing.T) {
	assert.Nil(t, NewAuditLogFromEvent(RoomEvent{Kind: EventMessageSent}))

	settings := DefaultRoomSettings()
	log := NewAuditLogFromEvent(RoomEvent{
		Kind:     EventRoomCreated,
		RoomCode: "123",
		At:       t0,
		Settings: &settings,
	})
	if assert.NotNil(t, log) {
		assert.Equal(t, "123", log.RoomCode)
		assert.Equal(t, t0, log.Timestamp)
		assert.Equal(t, 50, log.Metadata["max_users"])
	}
}
