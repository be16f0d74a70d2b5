package domain

import (
	"sync"
	"time"

	"github.com/hilthontt/burnroom/internal/infrastructure/validate"
)

// Room is the unit of mutual exclusion: every method takes the room lock and
// none of them calls out while holding it.
type Room struct {
	Code      string
	Settings  RoomSettings
	CreatedAt time.Time

	policy     Policy
	presence   presence
	store      messageStore
	emptySince time.Time
	closed     bool
	mu         sync.Mutex
}

type RoomState struct {
	Code         string            `json:"code"`
	Settings     RoomSettings      `json:"settings"`
	CreatedAt    time.Time         `json:"createdAt"`
	Participants []ParticipantView `json:"participants"`
	Messages     []MessageView     `json:"messages"`
	ServerTime   time.Time         `json:"serverTime"`
}

type RoomInfo struct {
	Code             string       `json:"code"`
	ParticipantCount int          `json:"participantCount"`
	MaxUsers         int          `json:"maxUsers"`
	CreatedAt        time.Time    `json:"createdAt"`
	Settings         RoomSettings `json:"settings"`
}

type JoinResult struct {
	Participant ParticipantView
	Rejoined    bool
	State       RoomState
}

// ValidateRoomCode checks code against the policy's length bounds.
func ValidateRoomCode(code string, policy Policy) error {
	check := validate.Compose(
		validate.LengthBetween(policy.MinCodeLength, policy.MaxCodeLength),
		validate.NoControlChars(),
	)
	if err := check(code); err != nil {
		return ErrInvalidRoomCode
	}
	return nil
}

func NewRoom(code string, settings RoomSettings, policy Policy, now time.Time) (*Room, error) {
	policy = policy.WithDefaults()
	if err := ValidateRoomCode(code, policy); err != nil {
		return nil, err
	}

	return &Room{
		Code:       code,
		Settings:   settings.Normalize(),
		CreatedAt:  now,
		policy:     policy,
		presence:   newPresence(),
		store:      newMessageStore(),
		emptySince: now,
	}, nil
}

// Join admits a participant or resumes the one identified by hint.
// Events are returned even on error because presence pruning may already have run.
func (r *Room) Join(hint, displayName string, now time.Time) (JoinResult, []RoomEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return JoinResult{}, nil, ErrRoomClosed
	}

	name, err := normalizeDisplayName(displayName, r.policy.MaxDisplayNameLength)
	if err != nil {
		return JoinResult{}, nil, err
	}

	if p, ok := r.presence.get(hint); ok {
		p.touch(now)
		p.IsTyping = false
		if name != "" && name != p.DisplayName {
			p.rename(name)
		}

		events := r.pruneLocked(now)
		events = append(events, r.participantEvent(EventParticipantJoined, p, ReasonRejoined, now))
		return JoinResult{
			Participant: p.view(now, r.policy),
			Rejoined:    true,
			State:       r.stateLocked(now),
		}, events, nil
	}

	events := r.pruneLocked(now)

	if r.presence.size() >= r.Settings.MaxUsers {
		events = append(events, RoomEvent{
			Kind:             EventJoinRejected,
			RoomCode:         r.Code,
			At:               now,
			Reason:           ReasonRoomFull,
			ParticipantCount: r.presence.size(),
		})
		return JoinResult{}, events, ErrRoomFull
	}

	if name == "" {
		if !r.Settings.AllowAnonymous {
			return JoinResult{}, events, ErrDisplayNameRequired
		}
		name = anonymousName()
	}

	p := newParticipant(name, now)
	r.presence.add(p)
	r.emptySince = time.Time{}

	events = append(events, r.participantEvent(EventParticipantJoined, p, "", now))
	return JoinResult{
		Participant: p.view(now, r.policy),
		State:       r.stateLocked(now),
	}, events, nil
}

// Send appends a message from authorID. The author implicitly views it.
func (r *Room) Send(authorID, text string, now time.Time) (MessageView, []RoomEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return MessageView{}, nil, ErrRoomClosed
	}

	author, ok := r.presence.get(authorID)
	if !ok {
		return MessageView{}, nil, ErrParticipantNotFound
	}

	msg, err := newMessage(author, text, now, r.policy.MaxMessageLength)
	if err != nil {
		return MessageView{}, nil, err
	}

	author.touch(now)

	var events []RoomEvent
	if author.IsTyping {
		author.IsTyping = false
		events = append(events, r.participantEvent(EventTypingChanged, author, "", now))
	}
	events = append(events, r.pruneLocked(now)...)

	r.store.append(msg)

	view := msg.view(r.presence.size())
	events = append(events, RoomEvent{
		Kind:             EventMessageSent,
		RoomCode:         r.Code,
		At:               now,
		Message:          &view,
		ParticipantCount: r.presence.size(),
	})

	return view, events, nil
}

// Heartbeat refreshes id's last activity. Unknown ids are ignored.
func (r *Room) Heartbeat(id string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}

	p, ok := r.presence.get(id)
	if !ok {
		return false
	}
	p.touch(now)
	return true
}

// SetTyping updates id's typing flag and counts as activity.
// An event is produced only when the flag actually changes.
func (r *Room) SetTyping(id string, isTyping bool, now time.Time) ([]RoomEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, false
	}

	p, ok := r.presence.get(id)
	if !ok {
		return nil, false
	}

	p.touch(now)
	if p.IsTyping == isTyping {
		return nil, true
	}

	p.IsTyping = isTyping
	return []RoomEvent{r.participantEvent(EventTypingChanged, p, "", now)}, true
}

// Poll returns the authoritative state. With ack set, viewerID acknowledges
// every current message before the expiry sweep runs.
func (r *Room) Poll(viewerID string, ack bool, now time.Time) (RoomState, []RoomEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return RoomState{}, nil, ErrRoomClosed
	}

	if p, ok := r.presence.get(viewerID); ok {
		p.touch(now)
	}

	events := r.pruneLocked(now)

	if _, ok := r.presence.get(viewerID); ok && ack {
		r.store.markViewed(viewerID)
	}

	if expired := r.store.sweepExpiry(r.presence.activeIDs(), now); len(expired) > 0 {
		events = append(events, r.expiredEvent(expired, now))
	}

	return r.stateLocked(now), events, nil
}

// Snapshot is a read-only projection of the room. It does not prune.
func (r *Room) Snapshot(now time.Time) RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stateLocked(now)
}

func (r *Room) Info(now time.Time) (RoomInfo, []RoomEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return RoomInfo{}, nil, ErrRoomClosed
	}

	events := r.pruneLocked(now)
	return RoomInfo{
		Code:             r.Code,
		ParticipantCount: r.presence.size(),
		MaxUsers:         r.Settings.MaxUsers,
		CreatedAt:        r.CreatedAt,
		Settings:         r.Settings,
	}, events, nil
}

// Leave removes id immediately.
func (r *Room) Leave(id string, now time.Time) ([]RoomEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, false
	}

	p, ok := r.presence.remove(id)
	if !ok {
		return nil, false
	}
	if r.presence.size() == 0 {
		r.emptySince = now
	}

	return []RoomEvent{r.participantEvent(EventParticipantLeft, p, ReasonLeft, now)}, true
}

// Sweep runs one maintenance pass: TTL pruning, presence pruning, the
// expiry sweep over the remaining participants, then grace removal.
func (r *Room) Sweep(now time.Time) []RoomEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	var events []RoomEvent
	if pruned := r.store.pruneByTTL(r.Settings.Retention(), now); len(pruned) > 0 {
		events = append(events, r.removedEvent(pruned, ReasonTTL, now))
	}

	events = append(events, r.pruneLocked(now)...)

	if expired := r.store.sweepExpiry(r.presence.activeIDs(), now); len(expired) > 0 {
		events = append(events, r.expiredEvent(expired, now))
	}

	if removed := r.store.removeExpired(now, r.policy.ExpiryGrace); len(removed) > 0 {
		events = append(events, r.removedEvent(removed, ReasonExpired, now))
	}

	return events
}

// RemoveExpired drops expired messages whose grace window has elapsed.
func (r *Room) RemoveExpired(now time.Time) []RoomEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	removed := r.store.removeExpired(now, r.policy.ExpiryGrace)
	if len(removed) == 0 {
		return nil
	}
	return []RoomEvent{r.removedEvent(removed, ReasonExpired, now)}
}

// TryClose marks the room closed when it has had no participants for at
// least idleAfter. A closed room rejects every further operation.
func (r *Room) TryClose(now time.Time, idleAfter time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return true
	}
	if r.presence.size() > 0 || r.emptySince.IsZero() {
		return false
	}
	if now.Sub(r.emptySince) < idleAfter {
		return false
	}

	r.closed = true
	return true
}

func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presence.size()
}

func (r *Room) MessageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.size()
}

// Policy returns the limits the room was created with.
func (r *Room) Policy() Policy {
	return r.policy
}

func (r *Room) CreatedEvent() RoomEvent {
	settings := r.Settings
	return RoomEvent{
		Kind:     EventRoomCreated,
		RoomCode: r.Code,
		At:       r.CreatedAt,
		Settings: &settings,
	}
}

func (r *Room) DeletedEvent(now time.Time) RoomEvent {
	return RoomEvent{
		Kind:     EventRoomDeleted,
		RoomCode: r.Code,
		At:       now,
		Reason:   ReasonIdle,
	}
}

func (r *Room) pruneLocked(now time.Time) []RoomEvent {
	removed := r.presence.pruneInactive(now, r.policy.InactiveAfter)
	if len(removed) == 0 {
		return nil
	}
	if r.presence.size() == 0 {
		r.emptySince = now
	}

	events := make([]RoomEvent, 0, len(removed))
	for _, p := range removed {
		events = append(events, r.participantEvent(EventParticipantLeft, p, ReasonInactive, now))
	}
	return events
}

func (r *Room) stateLocked(now time.Time) RoomState {
	participants := r.presence.list()
	views := make([]ParticipantView, 0, len(participants))
	for _, p := range participants {
		views = append(views, p.view(now, r.policy))
	}

	return RoomState{
		Code:         r.Code,
		Settings:     r.Settings,
		CreatedAt:    r.CreatedAt,
		Participants: views,
		Messages:     r.store.snapshot(now, len(participants), r.policy.ExpiryGrace),
		ServerTime:   now,
	}
}

func (r *Room) participantEvent(kind EventKind, p *Participant, reason string, now time.Time) RoomEvent {
	view := p.view(now, r.policy)
	return RoomEvent{
		Kind:             kind,
		RoomCode:         r.Code,
		At:               now,
		Participant:      &view,
		Reason:           reason,
		ParticipantCount: r.presence.size(),
	}
}

func (r *Room) removedEvent(ms []*Message, reason string, now time.Time) RoomEvent {
	return RoomEvent{
		Kind:             EventMessageRemoved,
		RoomCode:         r.Code,
		At:               now,
		MessageIDs:       messageIDs(ms),
		Reason:           reason,
		ParticipantCount: r.presence.size(),
	}
}

func (r *Room) expiredEvent(ms []*Message, now time.Time) RoomEvent {
	return RoomEvent{
		Kind:             EventMessageExpired,
		RoomCode:         r.Code,
		At:               now,
		MessageIDs:       messageIDs(ms),
		ParticipantCount: r.presence.size(),
	}
}
