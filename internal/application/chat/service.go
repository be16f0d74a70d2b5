package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "github.com/hilthontt/burnroom/internal/application/chat"
	maxJoinAttempts = 3

	DefaultIdleTimeout = time.Hour
)

type Service interface {
	JoinRoom(ctx context.Context, in JoinInput) (domain.JoinResult, error)
	SendMessage(ctx context.Context, code, participantID, text string) (domain.MessageView, error)
	PollRoomState(ctx context.Context, code, participantID string, ack bool) (domain.RoomState, error)
	Heartbeat(ctx context.Context, code, participantID string) error
	SetTyping(ctx context.Context, code, participantID string, isTyping bool) error
	Leave(ctx context.Context, code, participantID string) error
	RoomInfo(ctx context.Context, code string) (domain.RoomInfo, error)
	Sweep(ctx context.Context) SweepReport
	Stats(ctx context.Context) Stats
}

type JoinInput struct {
	Code          string
	DisplayName   string
	ParticipantID string
	// Settings apply only when the join creates the room. Omitted fields take the configured defaults.
	Settings *domain.SettingsPatch
}

type SweepReport struct {
	Rooms   int
	Reaped  int
	Events  int
	Elapsed time.Duration
}

type Stats struct {
	Rooms        int `json:"rooms"`
	Participants int `json:"participants"`
}

type Options struct {
	Registry        domain.RoomRegistry
	Notifier        Notifier
	Scheduler       Scheduler
	Clock           Clock
	Logger          logging.Logger
	Tracer          trace.Tracer
	DefaultSettings domain.RoomSettings
	IdleTimeout     time.Duration
}

type service struct {
	registry        domain.RoomRegistry
	notifier        Notifier
	scheduler       Scheduler
	now             Clock
	logger          logging.Logger
	tracer          trace.Tracer
	defaultSettings domain.RoomSettings
	idleTimeout     time.Duration
}

func NewService(opts Options) Service {
	if opts.Registry == nil {
		panic("chat: registry is required")
	}

	s := &service{
		registry:        opts.Registry,
		notifier:        opts.Notifier,
		scheduler:       opts.Scheduler,
		now:             opts.Clock,
		logger:          opts.Logger,
		tracer:          opts.Tracer,
		defaultSettings: opts.DefaultSettings.Normalize(),
		idleTimeout:     opts.IdleTimeout,
	}

	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.scheduler == nil {
		s.scheduler = RealScheduler()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.idleTimeout <= 0 {
		s.idleTimeout = DefaultIdleTimeout
	}

	return s
}

func (s *service) JoinRoom(ctx context.Context, in JoinInput) (domain.JoinResult, error) {
	ctx, span := s.tracer.Start(ctx, "chat.JoinRoom", trace.WithAttributes(attribute.String("room.code", in.Code)))
	defer span.End()

	settings := in.Settings.Apply(s.defaultSettings)

	for attempt := 1; attempt <= maxJoinAttempts; attempt++ {
		now := s.now()

		room, created, err := s.registry.GetOrCreate(ctx, in.Code, settings, now)
		if err != nil {
			return domain.JoinResult{}, s.fail(span, fmt.Errorf("join room %q: %w", in.Code, err))
		}
		if created {
			s.logger.Info(logging.Room, logging.Startup, "room created", map[logging.ExtraKey]any{
				logging.RoomCode: in.Code,
			})
			s.publish(ctx, []domain.RoomEvent{room.CreatedEvent()})
		}

		res, events, err := room.Join(in.ParticipantID, in.DisplayName, now)
		s.publish(ctx, events)

		if errors.Is(err, domain.ErrRoomClosed) {
			s.logger.Debug(logging.Room, logging.Join, "room closed during join, retrying", map[logging.ExtraKey]any{
				logging.RoomCode: in.Code,
				logging.Count:    attempt,
			})
			continue
		}
		if err != nil {
			if errors.Is(err, domain.ErrRoomFull) {
				s.logger.Warn(logging.Room, logging.Capacity, "join rejected, room is full", map[logging.ExtraKey]any{
					logging.RoomCode: in.Code,
				})
			}
			return domain.JoinResult{}, s.fail(span, fmt.Errorf("join room %q: %w", in.Code, err))
		}

		span.SetAttributes(
			attribute.String("participant.id", res.Participant.ID),
			attribute.Bool("participant.rejoined", res.Rejoined),
		)
		s.logger.Info(logging.Presence, logging.Join, "participant joined", map[logging.ExtraKey]any{
			logging.RoomCode:      in.Code,
			logging.ParticipantID: res.Participant.ID,
			logging.Count:         len(res.State.Participants),
		})
		return res, nil
	}

	return domain.JoinResult{}, s.fail(span, fmt.Errorf("join room %q: %w", in.Code, domain.ErrRoomClosed))
}

func (s *service) SendMessage(ctx context.Context, code, participantID, text string) (domain.MessageView, error) {
	ctx, span := s.tracer.Start(ctx, "chat.SendMessage", trace.WithAttributes(attribute.String("room.code", code)))
	defer span.End()

	room, err := s.room(ctx, code)
	if err != nil {
		return domain.MessageView{}, s.fail(span, err)
	}

	msg, events, err := room.Send(participantID, text, s.now())
	s.publish(ctx, events)
	if err != nil {
		return domain.MessageView{}, s.fail(span, fmt.Errorf("send to room %q: %w", code, closedAsNotFound(err)))
	}

	s.logger.Debug(logging.Message, logging.Send, "message sent", map[logging.ExtraKey]any{
		logging.RoomCode:      code,
		logging.ParticipantID: participantID,
		logging.MessageID:     msg.ID,
	})
	return msg, nil
}

func (s *service) PollRoomState(ctx context.Context, code, participantID string, ack bool) (domain.RoomState, error) {
	ctx, span := s.tracer.Start(ctx, "chat.PollRoomState", trace.WithAttributes(
		attribute.String("room.code", code),
		attribute.Bool("poll.ack", ack),
	))
	defer span.End()

	room, err := s.room(ctx, code)
	if err != nil {
		return domain.RoomState{}, s.fail(span, err)
	}

	state, events, err := room.Poll(participantID, ack, s.now())
	s.publish(ctx, events)
	if err != nil {
		return domain.RoomState{}, s.fail(span, fmt.Errorf("poll room %q: %w", code, closedAsNotFound(err)))
	}

	s.scheduleRemoval(room, events)
	return state, nil
}

func (s *service) Heartbeat(ctx context.Context, code, participantID string) error {
	room, err := s.room(ctx, code)
	if err != nil {
		return err
	}

	if !room.Heartbeat(participantID, s.now()) {
		return fmt.Errorf("heartbeat in room %q: %w", code, domain.ErrParticipantNotFound)
	}
	return nil
}

func (s *service) SetTyping(ctx context.Context, code, participantID string, isTyping bool) error {
	room, err := s.room(ctx, code)
	if err != nil {
		return err
	}

	events, found := room.SetTyping(participantID, isTyping, s.now())
	if !found {
		return fmt.Errorf("typing in room %q: %w", code, domain.ErrParticipantNotFound)
	}

	s.publish(ctx, events)
	return nil
}

func (s *service) Leave(ctx context.Context, code, participantID string) error {
	room, err := s.room(ctx, code)
	if err != nil {
		return err
	}

	events, found := room.Leave(participantID, s.now())
	if !found {
		return fmt.Errorf("leave room %q: %w", code, domain.ErrParticipantNotFound)
	}

	s.logger.Info(logging.Presence, logging.Leave, "participant left", map[logging.ExtraKey]any{
		logging.RoomCode:      code,
		logging.ParticipantID: participantID,
	})
	s.publish(ctx, events)
	return nil
}

func (s *service) RoomInfo(ctx context.Context, code string) (domain.RoomInfo, error) {
	room, err := s.room(ctx, code)
	if err != nil {
		return domain.RoomInfo{}, err
	}

	info, events, err := room.Info(s.now())
	s.publish(ctx, events)
	if err != nil {
		return domain.RoomInfo{}, fmt.Errorf("room info %q: %w", code, closedAsNotFound(err))
	}
	return info, nil
}

// Sweep runs one maintenance pass over every room, then reaps idle rooms.
// Rooms that vanish mid-sweep are skipped.
func (s *service) Sweep(ctx context.Context) SweepReport {
	ctx, span := s.tracer.Start(ctx, "chat.Sweep")
	defer span.End()

	start := s.now()
	report := SweepReport{}

	for _, room := range s.registry.Rooms(ctx) {
		if ctx.Err() != nil {
			break
		}

		events := room.Sweep(s.now())
		report.Rooms++
		report.Events += len(events)

		s.publish(ctx, events)
		s.scheduleRemoval(room, events)
	}

	now := s.now()
	reaped := s.registry.ReapIdle(ctx, now, s.idleTimeout)
	if len(reaped) > 0 {
		deleted := make([]domain.RoomEvent, 0, len(reaped))
		for _, room := range reaped {
			deleted = append(deleted, room.DeletedEvent(now))
			s.logger.Info(logging.Reaper, logging.Reap, "idle room deleted", map[logging.ExtraKey]any{
				logging.RoomCode: room.Code,
			})
		}
		s.publish(ctx, deleted)
		report.Events += len(deleted)
	}

	report.Reaped = len(reaped)
	report.Elapsed = s.now().Sub(start)

	span.SetAttributes(
		attribute.Int("sweep.rooms", report.Rooms),
		attribute.Int("sweep.reaped", report.Reaped),
		attribute.Int("sweep.events", report.Events),
	)
	return report
}

func (s *service) Stats(ctx context.Context) Stats {
	rooms := s.registry.Rooms(ctx)
	stats := Stats{Rooms: len(rooms)}
	for _, room := range rooms {
		stats.Participants += room.ParticipantCount()
	}
	return stats
}

func (s *service) room(ctx context.Context, code string) (*domain.Room, error) {
	room, err := s.registry.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("room %q: %w", code, err)
	}
	return room, nil
}

// scheduleRemoval arms a one-shot timer that drops newly expired messages
// once their grace window has passed.
func (s *service) scheduleRemoval(room *domain.Room, events []domain.RoomEvent) {
	ids := domain.ExpiredMessageIDs(events)
	if len(ids) == 0 {
		return
	}

	code := room.Code
	s.logger.Debug(logging.Message, logging.Expiry, "messages expired", map[logging.ExtraKey]any{
		logging.RoomCode: code,
		logging.Count:    len(ids),
	})

	s.scheduler.AfterFunc(room.Policy().ExpiryGrace, func() {
		s.removeExpired(code)
	})
}

func (s *service) removeExpired(code string) {
	ctx := context.Background()

	room, err := s.registry.Get(ctx, code)
	if err != nil {
		return
	}

	s.publish(ctx, room.RemoveExpired(s.now()))
}

func (s *service) publish(ctx context.Context, events []domain.RoomEvent) {
	if len(events) == 0 {
		return
	}
	s.notifier.Notify(ctx, events)
}

func (s *service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	if domain.KindOf(err) == domain.KindUnknown {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// closedAsNotFound maps a room reaped under the caller's feet to NotFound.
func closedAsNotFound(err error) error {
	if errors.Is(err, domain.ErrRoomClosed) {
		return domain.ErrRoomNotFound
	}
	return err
}
