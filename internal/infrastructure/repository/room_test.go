package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	reg := NewRoomRegistry(0, domain.DefaultPolicy())

	room, created, err := reg.GetOrCreate(ctx, "123", domain.RoomSettings{MaxUsers: 2, HistoryDurationHours: 1}, t0)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, room.Settings.MaxUsers)

	again, created, err := reg.GetOrCreate(ctx, "123", domain.RoomSettings{MaxUsers: 9}, t0)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, room, again)
	assert.Equal(t, 2, again.Settings.MaxUsers, "settings are fixed by the first join")

	got, err := reg.Get(ctx, "123")
	require.NoError(t, err)
	assert.Same(t, room, got)
	assert.Equal(t, 1, reg.Count(ctx))
}

func TestGetOrCreate_InvalidCode(t *testing.T) {
	reg := NewRoomRegistry(0, domain.DefaultPolicy())

	_, _, err := reg.GetOrCreate(context.Background(), "ab", domain.DefaultRoomSettings(), t0)
	assert.ErrorIs(t, err, domain.ErrInvalidRoomCode)
	assert.Zero(t, reg.Count(context.Background()))
}

func TestGetOrCreate_Capacity(t *testing.T) {
	ctx := context.Background()
	reg := NewRoomRegistry(1, domain.DefaultPolicy())

	_, _, err := reg.GetOrCreate(ctx, "first", domain.DefaultRoomSettings(), t0)
	require.NoError(t, err)

	_, _, err = reg.GetOrCreate(ctx, "second", domain.DefaultRoomSettings(), t0)
	assert.ErrorIs(t, err, domain.ErrTooManyRooms)

	_, created, err := reg.GetOrCreate(ctx, "first", domain.DefaultRoomSettings(), t0)
	assert.NoError(t, err)
	assert.False(t, created)
}

func TestGet_NotFound(t *testing.T) {
	reg := NewRoomRegistry(0, domain.DefaultPolicy())

	_, err := reg.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestReapIdle(t *testing.T) {
	ctx := context.Background()
	reg := NewRoomRegistry(0, domain.DefaultPolicy())

	busy, _, err := reg.GetOrCreate(ctx, "busy", domain.DefaultRoomSettings(), t0)
	require.NoError(t, err)
	_, _, err = busy.Join("", "Alice", t0.Add(59*time.Minute))
	require.NoError(t, err)

	_, _, err = reg.GetOrCreate(ctx, "idle", domain.DefaultRoomSettings(), t0)
	require.NoError(t, err)

	assert.Empty(t, reg.ReapIdle(ctx, t0.Add(30*time.Minute), time.Hour))

	reaped := reg.ReapIdle(ctx, t0.Add(time.Hour), time.Hour)
	require.Len(t, reaped, 1)
	assert.Equal(t, "idle", reaped[0].Code)
	assert.True(t, reaped[0].Closed())

	_, err = reg.Get(ctx, "idle")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	rooms := reg.Rooms(ctx)
	require.Len(t, rooms, 1)
	assert.Equal(t, "busy", rooms[0].Code)
}

func TestReapIdle_ClosedRoomIsReplacedOnNextJoin(t *testing.T) {
	ctx := context.Background()
	reg := NewRoomRegistry(0, domain.DefaultPolicy())

	stale, _, err := reg.GetOrCreate(ctx, "123", domain.DefaultRoomSettings(), t0)
	require.NoError(t, err)
	require.Len(t, reg.ReapIdle(ctx, t0.Add(time.Hour), time.Hour), 1)

	_, _, err = stale.Join("", "Alice", t0.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrRoomClosed)

	fresh, created, err := reg.GetOrCreate(ctx, "123", domain.DefaultRoomSettings(), t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotSame(t, stale, fresh)
}

func TestConcurrentJoinsAndReaps(t *testing.T) {
	ctx := context.Background()
	reg := NewRoomRegistry(0, domain.DefaultPolicy())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code := fmt.Sprintf("room-%d", i%3)
			for j := 0; j < 50; j++ {
				room, _, err := reg.GetOrCreate(ctx, code, domain.RoomSettings{MaxUsers: 5}, t0)
				if !assert.NoError(t, err) {
					return
				}
				_, _, err = room.Join("", fmt.Sprintf("user-%d-%d", i, j), t0)
				if err != nil && err != domain.ErrRoomFull && err != domain.ErrRoomClosed {
					assert.NoError(t, err)
				}
				assert.LessOrEqual(t, room.ParticipantCount(), 5)
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			reg.ReapIdle(ctx, t0.Add(2*time.Hour), time.Hour)
			reg.Rooms(ctx)
		}
	}()

	wg.Wait()
	assert.LessOrEqual(t, reg.Count(ctx), 3)
}
