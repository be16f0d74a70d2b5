package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/contracts"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"github.com/hilthontt/burnroom/internal/infrastructure/messaging"
)

const (
	publishTimeout = 5 * time.Second
	publishBuffer  = 1024
)

// MessagePublisher is the part of the broker the publisher needs.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, routingKey string, msg contracts.AmqpMessage) error
}

// RoomPublisher forwards every room event to the broker, keyed by its kind.
// Notify only queues; Run does the publishing off the request path.
type RoomPublisher struct {
	broker MessagePublisher
	queue  chan domain.RoomEvent
	logger logging.Logger
}

func NewRoomPublisher(broker MessagePublisher, logger logging.Logger) *RoomPublisher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RoomPublisher{
		broker: broker,
		queue:  make(chan domain.RoomEvent, publishBuffer),
		logger: logger,
	}
}

// Notify queues events without blocking. Events that do not fit are dropped.
func (p *RoomPublisher) Notify(_ context.Context, events []domain.RoomEvent) {
	for _, e := range events {
		select {
		case p.queue <- e:
		default:
			p.logger.Warn(logging.RabbitMQ, logging.Publish, "publish queue full, event dropped", map[logging.ExtraKey]any{
				logging.RoomCode: e.RoomCode,
			})
		}
	}
}

// Run publishes queued events until ctx is cancelled, then flushes what is
// still buffered.
func (p *RoomPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.flush()
			return nil
		case e := <-p.queue:
			p.send(ctx, e)
		}
	}
}

func (p *RoomPublisher) flush() {
	ctx := context.Background()
	for {
		select {
		case e := <-p.queue:
			p.send(ctx, e)
		default:
			return
		}
	}
}

func (p *RoomPublisher) send(ctx context.Context, e domain.RoomEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, e); err != nil {
		p.logger.Error(logging.RabbitMQ, logging.Publish, "failed to publish room event", map[logging.ExtraKey]any{
			logging.RoomCode:     e.RoomCode,
			logging.ErrorMessage: err.Error(),
		})
	}
}

func (p *RoomPublisher) Publish(ctx context.Context, e domain.RoomEvent) error {
	payload := messaging.RoomEventData{
		Event: e,
	}

	roomEventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.broker.PublishMessage(ctx, string(e.Kind), contracts.AmqpMessage{
		RoomCode: e.RoomCode,
		Data:     roomEventJSON,
	})
}
