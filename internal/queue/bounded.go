package queue

import (
	"context"
	"sync"

	"github.com/notifyhub/dashcore/internal/domain"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 1000

// Bounded is a FIFO of fixed capacity backed by a buffered channel.
//
// Full-mode is wait: Enqueue blocks the producer until the consumer frees a
// slot, ctx is cancelled, or the queue is closed. Items are never dropped.
// Safe for any number of concurrent producers and consumers.
type Bounded[T any] struct {
	items chan T
	done  chan struct{}

	// mu guards close(items) against in-flight sends.
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New creates a queue holding at most capacity items.
func New[T any](capacity int) *Bounded[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bounded[T]{
		items: make(chan T, capacity),
		done:  make(chan struct{}),
	}
}

// Enqueue places item at the tail, suspending while the queue is full.
// Returns domain.ErrQueueClosed after Close, or ctx.Err() if ctx ends first.
func (q *Bounded[T]) Enqueue(ctx context.Context, item T) error {
	select {
	case <-q.done:
		return domain.ErrQueueClosed
	default:
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	// Close may have finished between the check above and RLock; items is
	// closed then and a send would panic.
	if q.closed {
		return domain.ErrQueueClosed
	}

	select {
	case q.items <- item:
		return nil
	case <-q.done:
		return domain.ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks until an item is available.
// Returns (zero, false) when ctx is cancelled, or when the queue is closed
// and every item enqueued before Close has been handed out.
func (q *Bounded[T]) Dequeue(ctx context.Context) (T, bool) {
	select {
	case item, ok := <-q.items:
		return item, ok
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Items returns a channel that yields every remaining item and is closed
// once the queue is closed and drained.
func (q *Bounded[T]) Items() <-chan T {
	return q.items
}

// Close stops accepting new items. Producers blocked in Enqueue are released
// with ErrQueueClosed; items already queued stay available to consumers.
func (q *Bounded[T]) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
		q.mu.Lock()
		q.closed = true
		close(q.items)
		q.mu.Unlock()
	})
}

// Closed reports whether Close has been called.
func (q *Bounded[T]) Closed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

// Len is the number of items waiting. Used by the queue-depth gauge.
func (q *Bounded[T]) Len() int { return len(q.items) }

// Cap is the fixed capacity the queue was created with.
func (q *Bounded[T]) Cap() int { return cap(q.items) }
