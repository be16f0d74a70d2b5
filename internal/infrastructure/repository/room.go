package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
)

// roomRegistry keeps every live room in memory, keyed by code.
type roomRegistry struct {
	rooms    map[string]*domain.Room // Code -> Room
	capacity uint
	policy   domain.Policy
	mu       *sync.RWMutex
}

// NewRoomRegistry returns an in-memory registry holding at most capacity rooms.
// A zero capacity means no limit.
func NewRoomRegistry(capacity uint, policy domain.Policy) domain.RoomRegistry {
	return &roomRegistry{
		rooms:    make(map[string]*domain.Room),
		capacity: capacity,
		policy:   policy.WithDefaults(),
		mu:       &sync.RWMutex{},
	}
}

// GetOrCreate returns the room for code, creating it with settings when absent.
// Settings are ignored for existing rooms.
func (r *roomRegistry) GetOrCreate(ctx context.Context, code string, settings domain.RoomSettings, now time.Time) (*domain.Room, bool, error) {
	if err := domain.ValidateRoomCode(code, r.policy); err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	room, exists := r.rooms[code]
	r.mu.RUnlock()
	if exists {
		return room, false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have created it between the two locks.
	if room, exists := r.rooms[code]; exists {
		return room, false, nil
	}

	if r.capacity > 0 && uint(len(r.rooms)) >= r.capacity {
		return nil, false, domain.ErrTooManyRooms
	}

	room, err := domain.NewRoom(code, settings, r.policy, now)
	if err != nil {
		return nil, false, err
	}

	r.rooms[code] = room
	return room, true, nil
}

func (r *roomRegistry) Get(ctx context.Context, code string) (*domain.Room, error) {
	if code == "" {
		return nil, domain.ErrRoomNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[code]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}
	if room == nil {
		panic("repository: nil room registered under " + code)
	}

	return room, nil
}

// Rooms returns a snapshot of the registered rooms ordered by code.
func (r *roomRegistry) Rooms(ctx context.Context) []*domain.Room {
	r.mu.RLock()
	rooms := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Code < rooms[j].Code
	})
	return rooms
}

// ReapIdle closes and removes every room that has been empty for at least
// idleAfter. Only one room lock is held at a time, always after the registry lock.
func (r *roomRegistry) ReapIdle(ctx context.Context, now time.Time, idleAfter time.Duration) []*domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	var reaped []*domain.Room
	for code, room := range r.rooms {
		if ctx.Err() != nil {
			break
		}
		if room.TryClose(now, idleAfter) {
			delete(r.rooms, code)
			reaped = append(reaped, room)
		}
	}

	sort.Slice(reaped, func(i, j int) bool {
		return reaped[i].Code < reaped[j].Code
	})
	return reaped
}

func (r *roomRegistry) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
