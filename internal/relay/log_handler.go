package relay

import (
	"context"

	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/mediator"
)

// LogHandler writes one Info line per domain event.
type LogHandler struct {
	logger *zap.Logger
}

func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) Handle(_ context.Context, n mediator.Notification) error {
	fields := []zap.Field{zap.String("notification_type", mediator.RequestName(n))}
	if ev, ok := n.(domain.DomainEvent); ok {
		fields = append(fields,
			zap.String("event", ev.EventName()),
			zap.Time("occurred_at", ev.OccurredAt()),
		)
	}
	switch ev := n.(type) {
	case *domain.CustomerCreatedEvent:
		fields = append(fields, zap.String("customer_id", ev.Item.ID))
	case *domain.CustomerUpdatedEvent:
		fields = append(fields, zap.String("customer_id", ev.Item.ID))
	case *domain.CustomerDeletedEvent:
		fields = append(fields, zap.String("customer_id", ev.Item.ID))
	}
	h.logger.Info("domain event", fields...)
	return nil
}
