package reaper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hilthontt/burnroom/internal/application/chat"
	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep(context.Context) chat.SweepReport {
	s.calls.Add(1)
	return chat.SweepReport{Rooms: 1}
}

type recorderFunc func(chat.SweepReport)

func (f recorderFunc) ObserveSweep(r chat.SweepReport) { f(r) }

func TestReaper_TicksUntilCancelled(t *testing.T) {
	sweeper := &countingSweeper{}
	var observed atomic.Int32
	r := New(sweeper, recorderFunc(func(chat.SweepReport) { observed.Add(1) }), nil, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
	assert.Equal(t, sweeper.calls.Load(), observed.Load())
}

func TestReaper_StopIsIdempotent(t *testing.T) {
	r := New(&countingSweeper{}, nil, nil, time.Hour)

	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()

	r.Stop()
	r.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}

func TestReaper_SweepsRealRooms(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	registry := repository.NewRoomRegistry(0, domain.DefaultPolicy())
	svc := chat.NewService(chat.Options{Registry: registry, Clock: clock})

	_, err := svc.JoinRoom(context.Background(), chat.JoinInput{Code: "123", DisplayName: "Alice"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	report := New(svc, nil, nil, time.Minute).RunOnce(context.Background())

	// Alice is pruned in the sweep, so the room has only just become empty.
	assert.Equal(t, 1, report.Rooms)
	assert.Zero(t, report.Reaped)

	now = now.Add(time.Hour)
	report = New(svc, nil, nil, time.Minute).RunOnce(context.Background())
	assert.Equal(t, 1, report.Reaped)
	assert.Zero(t, registry.Count(context.Background()))
}
