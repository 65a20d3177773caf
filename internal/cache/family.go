package cache

import (
	"sync"
	"time"
)

// Family owns the single live token of one logical group of cached reads,
// e.g. every paginated or by-id view of customers.
type Family struct {
	name string
	ttl  time.Duration

	mu    sync.Mutex
	token *Token

	onRefresh func(family string)
}

func NewFamily(name string, ttl time.Duration) *Family {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Family{name: name, ttl: ttl}
}

func (f *Family) Name() string { return f.name }

// GetOrCreate returns the current token, replacing it first if it has been
// cancelled or has expired. Callers never observe a half-replaced token.
func (f *Family) GetOrCreate() *Token {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.token == nil || f.token.Canceled() {
		if f.token != nil {
			f.token.cancel()
		}
		f.token = newToken(f.ttl)
	}
	return f.token
}

// Refresh cancels the live token and installs a fresh one. If the current
// token is already cancelled it is left alone; GetOrCreate replaces it.
func (f *Family) Refresh() {
	f.mu.Lock()
	refreshed := false
	if f.token != nil && !f.token.Canceled() {
		f.token.cancel()
		f.token = newToken(f.ttl)
		refreshed = true
	}
	hook := f.onRefresh
	f.mu.Unlock()

	if refreshed && hook != nil {
		hook(f.name)
	}
}

// FamilyState is a snapshot of a family for the admin endpoint.
type FamilyState struct {
	Name      string    `json:"name"`
	TokenID   string    `json:"token_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Canceled  bool      `json:"canceled"`
}

func (f *Family) State() FamilyState {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := FamilyState{Name: f.name}
	if f.token != nil {
		s.TokenID = f.token.id
		s.ExpiresAt = f.token.expiresAt
		s.Canceled = f.token.Canceled()
	}
	return s
}
