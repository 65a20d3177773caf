// Package cache implements per-family expiry tokens and a token-aware result
// store. Every cached read records the token of its family that was current
// when the read started; refreshing the family cancels that token and makes
// every such entry stale at once.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a family token lives without explicit invalidation.
const DefaultTTL = 30 * time.Minute

// Token is a cancellable liveness signal shared by all cache entries of one
// family. It is cancelled by Family.Refresh or when its TTL elapses,
// whichever comes first, and is never revived.
type Token struct {
	id        string
	ctx       context.Context
	cancel    context.CancelFunc
	expiresAt time.Time
}

func newToken(ttl time.Duration) *Token {
	ctx, cancel := context.WithTimeout(context.Background(), ttl)
	deadline, _ := ctx.Deadline()
	return &Token{
		id:        uuid.NewString(),
		ctx:       ctx,
		cancel:    cancel,
		expiresAt: deadline,
	}
}

func (t *Token) ID() string { return t.id }

// Done is closed once the token is cancelled.
func (t *Token) Done() <-chan struct{} { return t.ctx.Done() }

// Canceled reports whether the token has been invalidated or has expired.
func (t *Token) Canceled() bool { return t.ctx.Err() != nil }

func (t *Token) ExpiresAt() time.Time { return t.expiresAt }

// Err is context.Canceled after an explicit refresh and
// context.DeadlineExceeded after the TTL elapsed.
func (t *Token) Err() error { return t.ctx.Err() }
