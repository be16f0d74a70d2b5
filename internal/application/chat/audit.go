package chat

import (
	"context"
	"time"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
)

const auditWriteTimeout = 5 * time.Second

// AuditNotifier writes lifecycle events straight to the audit repository.
// It is used when no broker sits between the service and the audit store.
type AuditNotifier struct {
	repo   domain.RoomAuditRepository
	logger logging.Logger
}

func NewAuditNotifier(repo domain.RoomAuditRepository, logger logging.Logger) *AuditNotifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AuditNotifier{repo: repo, logger: logger}
}

func (a *AuditNotifier) Notify(ctx context.Context, events []domain.RoomEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	for _, e := range events {
		entry := domain.NewAuditLogFromEvent(e)
		if entry == nil {
			continue
		}
		if err := a.repo.Log(ctx, entry); err != nil {
			a.logger.Error(logging.MongoDB, logging.ExternalService, "failed to write audit log", map[logging.ExtraKey]any{
				logging.RoomCode:     e.RoomCode,
				logging.ErrorMessage: err.Error(),
			})
		}
	}
}
