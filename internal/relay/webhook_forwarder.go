package relay

import (
	"context"
	"fmt"

	"github.com/notifyhub/dashcore/internal/mediator"
	"github.com/notifyhub/dashcore/internal/provider"
)

// Limiter throttles deliveries per event name.
type Limiter interface {
	Wait(ctx context.Context, eventName string) error
}

// WebhookForwarder posts every event to an external webhook, throttled per event name.
type WebhookForwarder struct {
	limiter  Limiter
	provider provider.Provider
}

func NewWebhookForwarder(limiter Limiter, p provider.Provider) *WebhookForwarder {
	return &WebhookForwarder{limiter: limiter, provider: p}
}

func (f *WebhookForwarder) Handle(ctx context.Context, n mediator.Notification) error {
	env, err := Envelope(n)
	if err != nil {
		return err
	}
	if err := f.limiter.Wait(ctx, env.Name); err != nil {
		return fmt.Errorf("rate limit %s: %w", env.Name, err)
	}
	if err := f.provider.Send(ctx, env); err != nil {
		return fmt.Errorf("forward %s: %w", env.Name, err)
	}
	return nil
}
