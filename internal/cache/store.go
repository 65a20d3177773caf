package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type entry struct {
	value any
	token *Token
}

// StoreHooks carries metric callbacks; nil hooks are no-ops.
type StoreHooks struct {
	OnHit  func()
	OnMiss func()
}

// Store is a bounded LRU of cached results. An entry is served only while the
// family token it was stored with is still live.
type Store struct {
	lru   *expirable.LRU[string, entry]
	hooks StoreHooks
}

// NewStore creates a store holding at most size entries, each evicted after
// entryTTL regardless of its token.
func NewStore(size int, entryTTL time.Duration, hooks StoreHooks) *Store {
	if hooks.OnHit == nil {
		hooks.OnHit = func() {}
	}
	if hooks.OnMiss == nil {
		hooks.OnMiss = func() {}
	}
	return &Store{
		lru:   expirable.NewLRU[string, entry](size, nil, entryTTL),
		hooks: hooks,
	}
}

// Get returns the cached value for key. A value whose token was cancelled is
// evicted and reported as a miss.
func (s *Store) Get(key string) (any, bool) {
	e, ok := s.lru.Get(key)
	if ok && e.token != nil && e.token.Canceled() {
		s.lru.Remove(key)
		ok = false
	}
	if !ok {
		s.hooks.OnMiss()
		return nil, false
	}
	s.hooks.OnHit()
	return e.value, true
}

// Set stores value under key, bound to token. A nil token binds the entry to
// the store's entry TTL only. Values bound to an already cancelled token are
// not stored.
func (s *Store) Set(key string, value any, token *Token) {
	if token != nil && token.Canceled() {
		return
	}
	s.lru.Add(key, entry{value: value, token: token})
}

func (s *Store) Remove(keys ...string) {
	for _, k := range keys {
		s.lru.Remove(k)
	}
}

// PurgeStale evicts every entry whose token has been cancelled and returns
// how many were removed.
func (s *Store) PurgeStale() int {
	removed := 0
	for _, k := range s.lru.Keys() {
		e, ok := s.lru.Peek(k)
		if ok && e.token != nil && e.token.Canceled() {
			if s.lru.Remove(k) {
				removed++
			}
		}
	}
	return removed
}

func (s *Store) Len() int { return s.lru.Len() }
