package publisher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/mediator"
	"github.com/notifyhub/dashcore/internal/queue"
)

// workItem is owned by the publisher between enqueue and execution.
type workItem struct {
	ctx          context.Context
	executor     mediator.HandlerExecutor
	notification mediator.Notification
}

// ChannelPublisher decouples handler execution from the publishing request.
// One goroutine, started by the constructor, consumes a bounded FIFO and runs
// handlers strictly one at a time in enqueue order.
type ChannelPublisher struct {
	q      *queue.Bounded[workItem]
	logger *zap.Logger
	hooks  Hooks

	shutdown context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

func NewChannelPublisher(capacity int, logger *zap.Logger, hooks Hooks) *ChannelPublisher {
	shutdown, cancel := context.WithCancel(context.Background())
	p := &ChannelPublisher{
		q:        queue.New[workItem](capacity),
		logger:   logger.With(zap.String("component", "channel_publisher")),
		hooks:    hooks.withDefaults(),
		shutdown: shutdown,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues one work item per executor. When the queue is full the call
// waits for space. A failed enqueue is logged and the remaining executors are
// still queued; nothing is returned to the caller.
func (p *ChannelPublisher) Publish(ctx context.Context, executors []mediator.HandlerExecutor, n mediator.Notification) error {
	// Handlers outlive the request that published them; keep ctx values only.
	itemCtx := context.WithoutCancel(ctx)

	for _, e := range executors {
		err := p.q.Enqueue(ctx, workItem{ctx: itemCtx, executor: e, notification: n})
		if err != nil {
			if errors.Is(err, domain.ErrQueueClosed) {
				err = domain.ErrPublisherClosed
			}
			p.logger.Warn("failed to enqueue notification handler",
				zap.String("notification_type", notificationType(e, n)),
				zap.String("handler", e.Name),
				zap.Error(err),
			)
			continue
		}
		p.hooks.OnEnqueued(notificationType(e, n))
	}
	return nil
}

func (p *ChannelPublisher) run() {
	defer close(p.done)
	p.logger.Debug("consumer started", zap.Int("capacity", p.q.Cap()))

	// Items() is closed only after Close and a full drain, so every accepted
	// item is attempted exactly once.
	for item := range p.q.Items() {
		p.execute(item)
	}
	p.logger.Debug("consumer stopped")
}

func (p *ChannelPublisher) execute(item workItem) {
	ctx, cancel := context.WithCancel(item.ctx)
	stop := context.AfterFunc(p.shutdown, cancel)
	defer func() {
		stop()
		cancel()
	}()

	start := time.Now()
	err := invoke(ctx, item.executor, item.notification)
	p.hooks.OnHandled(item.executor.Name, time.Since(start), err)

	switch {
	case err == nil:
	case p.shutdown.Err() != nil && errors.Is(err, context.Canceled):
		// expected while shutting down
	default:
		p.logger.Error("notification handler failed",
			zap.String("notification_type", notificationType(item.executor, item.notification)),
			zap.String("handler", item.executor.Name),
			zap.Error(err),
		)
	}
}

// Close stops accepting work and waits for the consumer to drain the queue.
// If ctx ends first the shutdown signal cancels the handler context, and
// Close still waits for the consumer to finish attempting what was queued.
func (p *ChannelPublisher) Close(ctx context.Context) error {
	p.once.Do(p.q.Close)

	var err error
	select {
	case <-p.done:
	case <-ctx.Done():
		err = ctx.Err()
		p.cancel()
		<-p.done
	}
	p.cancel()
	return err
}

func (p *ChannelPublisher) Stats() Stats {
	return Stats{
		Strategy:      StrategyChannel,
		QueueDepth:    p.q.Len(),
		QueueCapacity: p.q.Cap(),
	}
}

var _ Publisher = (*ChannelPublisher)(nil)
