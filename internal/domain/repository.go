package domain

import (
	"context"
	"time"
)

// RoomRegistry owns the code to Room mapping. It is the only writer of that mapping.
type RoomRegistry interface {
	GetOrCreate(ctx context.Context, code string, settings RoomSettings, now time.Time) (*Room, bool, error)
	Get(ctx context.Context, code string) (*Room, error)
	Rooms(ctx context.Context) []*Room
	ReapIdle(ctx context.Context, now time.Time, idleAfter time.Duration) []*Room
	Count(ctx context.Context) int
}
