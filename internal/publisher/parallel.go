package publisher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/mediator"
)

// ParallelPublisher starts one goroutine per handler and returns at once.
// The caller never sees handler errors; they are logged here instead.
type ParallelPublisher struct {
	logger *zap.Logger
	hooks  Hooks

	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

func NewParallelPublisher(logger *zap.Logger, hooks Hooks) *ParallelPublisher {
	return &ParallelPublisher{
		logger: logger.With(zap.String("component", "parallel_publisher")),
		hooks:  hooks.withDefaults(),
	}
}

func (p *ParallelPublisher) Publish(ctx context.Context, executors []mediator.HandlerExecutor, n mediator.Notification) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("notification dropped",
			zap.String("notification_type", typeName(executors, n)),
			zap.Error(domain.ErrPublisherClosed),
		)
		return nil
	}

	handlerCtx := context.WithoutCancel(ctx)
	for _, e := range executors {
		p.wg.Add(1)
		p.inFlight.Add(1)
		p.hooks.OnEnqueued(notificationType(e, n))
		go p.execute(handlerCtx, e, n)
	}
	return nil
}

func (p *ParallelPublisher) execute(ctx context.Context, e mediator.HandlerExecutor, n mediator.Notification) {
	defer func() {
		p.inFlight.Add(-1)
		p.wg.Done()
	}()

	start := time.Now()
	err := invoke(ctx, e, n)
	p.hooks.OnHandled(e.Name, time.Since(start), err)
	if err != nil {
		p.logger.Error("notification handler failed",
			zap.String("notification_type", notificationType(e, n)),
			zap.String("handler", e.Name),
			zap.Error(err),
		)
	}
}

// Close rejects further notifications and waits for running handlers until
// ctx ends. Handlers that are still running keep running.
func (p *ParallelPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *ParallelPublisher) Stats() Stats {
	return Stats{Strategy: StrategyParallel, InFlight: int(p.inFlight.Load())}
}

func typeName(executors []mediator.HandlerExecutor, n mediator.Notification) string {
	if len(executors) > 0 {
		return notificationType(executors[0], n)
	}
	return notificationType(mediator.HandlerExecutor{}, n)
}

var _ Publisher = (*ParallelPublisher)(nil)
