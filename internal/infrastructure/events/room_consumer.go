package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/contracts"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
	"github.com/hilthontt/burnroom/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

type roomConsumer struct {
	rabbitmq *messaging.RabbitMQ
	audit    domain.RoomAuditRepository
	logger   logging.Logger
}

func NewRoomConsumer(rabbitmq *messaging.RabbitMQ, audit domain.RoomAuditRepository, logger logging.Logger) *roomConsumer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &roomConsumer{
		rabbitmq: rabbitmq,
		audit:    audit,
		logger:   logger,
	}
}

// Listen records audited room events until ctx is cancelled.
func (c *roomConsumer) Listen(ctx context.Context) error {
	return c.rabbitmq.ConsumeMessages(ctx, messaging.AuditQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		return c.handle(ctx, msg.Body)
	})
}

func (c *roomConsumer) handle(ctx context.Context, body []byte) error {
	var message contracts.AmqpMessage
	if err := json.Unmarshal(body, &message); err != nil {
		c.logger.Warn(logging.RabbitMQ, logging.Consume, "failed to unmarshal message", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	var payload messaging.RoomEventData
	if err := json.Unmarshal(message.Data, &payload); err != nil {
		c.logger.Warn(logging.RabbitMQ, logging.Consume, "failed to unmarshal room event", map[logging.ExtraKey]any{
			logging.RoomCode:     message.RoomCode,
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	entry := domain.NewAuditLogFromEvent(payload.Event)
	if entry == nil {
		return nil
	}

	if err := c.audit.Log(ctx, entry); err != nil {
		return fmt.Errorf("write audit log for room %s: %w", entry.RoomCode, err)
	}

	c.logger.Debug(logging.RabbitMQ, logging.Consume, "room event audited", map[logging.ExtraKey]any{
		logging.RoomCode: entry.RoomCode,
	})
	return nil
}
