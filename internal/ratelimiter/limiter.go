package ratelimiter

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// EventLimiters holds one token bucket limiter per event name, created on
// first use. Burst is set equal to the rate so no extra burst capacity is
// allowed beyond the configured per-second maximum.
type EventLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// New creates EventLimiters granting ratePerSec tokens per second per event name.
// A non-positive rate disables limiting.
func New(ratePerSec int) *EventLimiters {
	l := &EventLimiters{
		limit:    rate.Limit(ratePerSec),
		burst:    ratePerSec,
		limiters: make(map[string]*rate.Limiter),
	}
	if ratePerSec <= 0 {
		l.limit = rate.Inf
		l.burst = 0
	}
	return l
}

// Wait blocks until the event's limiter grants a token.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (el *EventLimiters) Wait(ctx context.Context, eventName string) error {
	return el.limiter(eventName).Wait(ctx)
}

func (el *EventLimiters) limiter(eventName string) *rate.Limiter {
	el.mu.Lock()
	defer el.mu.Unlock()
	l, ok := el.limiters[eventName]
	if !ok {
		l = rate.NewLimiter(el.limit, el.burst)
		el.limiters[eventName] = l
	}
	return l
}
