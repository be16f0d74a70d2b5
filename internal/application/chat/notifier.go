package chat

import (
	"context"
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
)

// Notifier receives room events after the room lock has been released.
// Implementations must not block for long; the caller is usually an HTTP request.
type Notifier interface {
	Notify(ctx context.Context, events []domain.RoomEvent)
}

type NotifierFunc func(ctx context.Context, events []domain.RoomEvent)

func (f NotifierFunc) Notify(ctx context.Context, events []domain.RoomEvent) {
	f(ctx, events)
}

// Notifiers fans every batch out to each member in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, events []domain.RoomEvent) {
	if len(events) == 0 {
		return
	}
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, events)
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, []domain.RoomEvent) {}

// Scheduler runs f once after d. Production code uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// RealScheduler schedules on the runtime timer heap.
func RealScheduler() Scheduler {
	return timeScheduler{}
}

type Clock func() time.Time
