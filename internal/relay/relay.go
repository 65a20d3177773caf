// Package relay holds the notification handlers that carry customer events
// out of the process: a structured log line, a rate-limited webhook and an
// AMQP topic exchange.
package relay

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/mediator"
	"github.com/notifyhub/dashcore/internal/provider"
)

// SubscribeCustomerEvents subscribes handler to every customer event type under name.
func SubscribeCustomerEvents(m *mediator.Mediator, name string, handler mediator.NotificationHandler) error {
	if err := mediator.SubscribeTo[*domain.CustomerCreatedEvent](m, name, handler); err != nil {
		return err
	}
	if err := mediator.SubscribeTo[*domain.CustomerUpdatedEvent](m, name, handler); err != nil {
		return err
	}
	return mediator.SubscribeTo[*domain.CustomerDeletedEvent](m, name, handler)
}

// Envelope wraps a domain event for delivery. Each call assigns a fresh id.
func Envelope(n mediator.Notification) (provider.EventEnvelope, error) {
	ev, ok := n.(domain.DomainEvent)
	if !ok {
		return provider.EventEnvelope{}, fmt.Errorf("relay: %T is not a domain event", n)
	}
	return provider.EventEnvelope{
		ID:         uuid.New().String(),
		Name:       ev.EventName(),
		OccurredAt: ev.OccurredAt(),
		Payload:    ev,
	}, nil
}
