package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	key string
	msg contracts.AmqpMessage
}

type fakeBroker struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (b *fakeBroker) PublishMessage(_ context.Context, key string, msg contracts.AmqpMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, published{key: key, msg: msg})
	return nil
}

type memoryAudit struct {
	mu   sync.Mutex
	logs []domain.RoomAuditLog
	err  error
}

func (m *memoryAudit) Log(_ context.Context, log *domain.RoomAuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memoryAudit) GetByRoomCode(context.Context, string, int) ([]domain.RoomAuditLog, error) {
	return m.logs, nil
}

func (m *memoryAudit) EnsureIndexes(context.Context) error { return nil }

type blockingBroker struct {
	release chan struct{}
	fakeBroker
}

func (b *blockingBroker) PublishMessage(ctx context.Context, key string, msg contracts.AmqpMessage) error {
	<-b.release
	return b.fakeBroker.PublishMessage(ctx, key, msg)
}

func (b *fakeBroker) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

func runPublisher(t *testing.T, pub *RoomPublisher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = pub.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestRoomPublisher_RoutesByKind(t *testing.T) {
	broker := &fakeBroker{}
	pub := NewRoomPublisher(broker, nil)
	runPublisher(t, pub)

	pub.Notify(context.Background(), []domain.RoomEvent{
		{Kind: domain.EventParticipantJoined, RoomCode: "abc"},
		{Kind: domain.EventMessageSent, RoomCode: "abc"},
	})

	require.Eventually(t, func() bool { return broker.count() == 2 }, time.Second, 5*time.Millisecond)
	broker.mu.Lock()
	defer broker.mu.Unlock()
	assert.Equal(t, contracts.EventParticipantJoined, broker.sent[0].key)
	assert.Equal(t, contracts.EventMessageSent, broker.sent[1].key)
	assert.Equal(t, "abc", broker.sent[1].msg.RoomCode)
}

func TestRoomPublisher_NotifyDoesNotWaitOnBroker(t *testing.T) {
	broker := &blockingBroker{release: make(chan struct{})}
	pub := NewRoomPublisher(broker, nil)
	runPublisher(t, pub)

	returned := make(chan struct{})
	go func() {
		pub.Notify(context.Background(), []domain.RoomEvent{
			{Kind: domain.EventMessageSent, RoomCode: "abc"},
			{Kind: domain.EventMessageSent, RoomCode: "abc"},
		})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a stalled broker")
	}
	assert.Zero(t, broker.count())

	close(broker.release)
	assert.Eventually(t, func() bool { return broker.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestRoomPublisher_DropsWhenQueueIsFull(t *testing.T) {
	broker := &fakeBroker{}
	pub := NewRoomPublisher(broker, nil)

	events := make([]domain.RoomEvent, publishBuffer+10)
	for i := range events {
		events[i] = domain.RoomEvent{Kind: domain.EventMessageSent, RoomCode: "abc"}
	}
	pub.Notify(context.Background(), events)
	assert.Len(t, pub.queue, publishBuffer)
}

func TestRoomPublisher_FlushesOnShutdown(t *testing.T) {
	broker := &fakeBroker{}
	pub := NewRoomPublisher(broker, nil)
	pub.Notify(context.Background(), []domain.RoomEvent{{Kind: domain.EventRoomCreated, RoomCode: "abc"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, pub.Run(ctx))
	assert.Equal(t, 1, broker.count())
}

func TestRoomPublisher_ErrorsAreSwallowed(t *testing.T) {
	broker := &fakeBroker{err: errors.New("connection reset")}
	pub := NewRoomPublisher(broker, nil)
	pub.Notify(context.Background(), []domain.RoomEvent{{Kind: domain.EventRoomCreated, RoomCode: "abc"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() {
		require.NoError(t, pub.Run(ctx))
	})
	assert.Zero(t, broker.count())
}

func encode(t *testing.T, e domain.RoomEvent) []byte {
	t.Helper()
	broker := &fakeBroker{}
	require.NoError(t, NewRoomPublisher(broker, nil).Publish(context.Background(), e))
	body, err := json.Marshal(broker.sent[0].msg)
	require.NoError(t, err)
	return body
}

func TestRoomConsumer_WritesAuditLog(t *testing.T) {
	audit := &memoryAudit{}
	c := NewRoomConsumer(nil, audit, nil)

	body := encode(t, domain.RoomEvent{
		Kind:             domain.EventParticipantLeft,
		RoomCode:         "abc",
		At:               time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Reason:           domain.ReasonInactive,
		ParticipantCount: 1,
	})

	require.NoError(t, c.handle(context.Background(), body))
	require.Len(t, audit.logs, 1)
	assert.Equal(t, domain.EventParticipantLeft, audit.logs[0].EventType)
	assert.Equal(t, "abc", audit.logs[0].RoomCode)
	assert.Equal(t, domain.ReasonInactive, audit.logs[0].Metadata["reason"])
}

func TestRoomConsumer_SkipsUnauditedKinds(t *testing.T) {
	audit := &memoryAudit{}
	c := NewRoomConsumer(nil, audit, nil)

	require.NoError(t, c.handle(context.Background(), encode(t, domain.RoomEvent{Kind: domain.EventTypingChanged, RoomCode: "abc"})))
	assert.Empty(t, audit.logs)
}

func TestRoomConsumer_RejectsGarbage(t *testing.T) {
	c := NewRoomConsumer(nil, &memoryAudit{}, nil)
	assert.Error(t, c.handle(context.Background(), []byte("not json")))
}

func TestRoomConsumer_PropagatesStoreFailure(t *testing.T) {
	c := NewRoomConsumer(nil, &memoryAudit{err: errors.New("mongo down")}, nil)
	err := c.handle(context.Background(), encode(t, domain.RoomEvent{Kind: domain.EventRoomDeleted, RoomCode: "abc"}))
	assert.ErrorContains(t, err, "mongo down")
}
