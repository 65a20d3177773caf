package provider

import (
	"context"
	"time"
)

// EventEnvelope is the JSON body delivered to external subscribers.
type EventEnvelope struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Provider abstracts delivery of an event to an external endpoint.
// Mocking this interface in tests gives full control over provider behaviour
// without making real HTTP calls.
type Provider interface {
	Send(ctx context.Context, env EventEnvelope) error
}
