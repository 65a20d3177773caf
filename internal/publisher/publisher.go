// Package publisher holds the interchangeable strategies the mediator uses to
// deliver a notification to its handlers.
package publisher

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/mediator"
)

// Strategy selects how notifications reach their handlers.
//
//	channel   handlers run one at a time on a single background goroutine fed
//	          by a bounded FIFO. Producers wait when the queue is full, failures
//	          are logged, and Close drains what was queued. Use this unless you
//	          have measured that handler latency is the bottleneck.
//	parallel  every handler gets its own goroutine immediately. No ordering and
//	          no backpressure: a burst of writes spawns a burst of goroutines.
//	          Use only when handlers are cheap, independent and idempotent.
type Strategy string

const (
	StrategyChannel  Strategy = "channel"
	StrategyParallel Strategy = "parallel"
)

// Publisher is a NotificationPublisher with a lifecycle.
type Publisher interface {
	mediator.NotificationPublisher
	// Close stops accepting notifications and waits for accepted work until
	// ctx ends, after which in-flight handlers see a cancelled context.
	Close(ctx context.Context) error
	Stats() Stats
}

// Stats is a point-in-time view used by the metrics endpoint.
type Stats struct {
	Strategy      Strategy `json:"strategy"`
	QueueDepth    int      `json:"queue_depth"`
	QueueCapacity int      `json:"queue_capacity"`
	InFlight      int      `json:"in_flight"`
}

// Hooks carries the metric callbacks injected by main so this package stays
// metrics-agnostic. Nil hooks are no-ops.
type Hooks struct {
	OnEnqueued func(notificationType string)
	OnHandled  func(handler string, latency time.Duration, err error)
}

func (h Hooks) withDefaults() Hooks {
	if h.OnEnqueued == nil {
		h.OnEnqueued = func(string) {}
	}
	if h.OnHandled == nil {
		h.OnHandled = func(string, time.Duration, error) {}
	}
	return h
}

// New builds the publisher for the configured strategy.
func New(strategy Strategy, capacity int, logger *zap.Logger, hooks Hooks) (Publisher, error) {
	switch strategy {
	case StrategyChannel, "":
		return NewChannelPublisher(capacity, logger, hooks), nil
	case StrategyParallel:
		return NewParallelPublisher(logger, hooks), nil
	default:
		return nil, fmt.Errorf("unknown publisher strategy %q", strategy)
	}
}

// invoke runs one handler, turning a panic into an error so a single bad
// handler cannot take down the consumer goroutine.
func invoke(ctx context.Context, e mediator.HandlerExecutor, n mediator.Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", e.Name, r)
		}
	}()
	return e.Callback(ctx, n)
}

func notificationType(e mediator.HandlerExecutor, n mediator.Notification) string {
	if e.NotificationType != nil {
		return e.NotificationType.String()
	}
	return fmt.Sprintf("%T", n)
}
