package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/notifyhub/dashcore/internal/cache"
)

func TestStore_EntryStaleAfterFamilyRefresh(t *testing.T) {
	s := cache.NewStore(100, time.Hour, cache.StoreHooks{})
	f := cache.NewFamily("customers", time.Minute)

	tok := f.GetOrCreate()
	s.Set("customers:id=1", "alice", tok)
	s.Set("customers:list:page=1", []string{"alice"}, tok)

	v, ok := s.Get("customers:id=1")
	assert.True(t, ok)
	assert.Equal(t, "alice", v)

	f.Refresh()

	_, ok = s.Get("customers:id=1")
	assert.False(t, ok)
	assert.Equal(t, 1, s.PurgeStale(), "the list entry went stale with the same token")
	assert.Zero(t, s.Len())
}

func TestStore_SetWithCancelledTokenIsIgnored(t *testing.T) {
	s := cache.NewStore(100, time.Hour, cache.StoreHooks{})
	f := cache.NewFamily("customers", time.Minute)

	tok := f.GetOrCreate()
	f.Refresh()
	s.Set("k", 1, tok)

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestStore_NilTokenAndRemove(t *testing.T) {
	s := cache.NewStore(100, time.Hour, cache.StoreHooks{})
	s.Set("a", 1, nil)
	s.Set("b", 2, nil)

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	s.Remove("a", "b")
	assert.Zero(t, s.Len())
}

func TestStore_Hooks(t *testing.T) {
	hits, misses := 0, 0
	s := cache.NewStore(100, time.Hour, cache.StoreHooks{
		OnHit:  func() { hits++ },
		OnMiss: func() { misses++ },
	})

	s.Get("missing")
	s.Set("k", "v", nil)
	s.Get("k")
	s.Get("k")

	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)
}

func TestStore_EntryTTL(t *testing.T) {
	s := cache.NewStore(100, 30*time.Millisecond, cache.StoreHooks{})
	s.Set("k", "v", nil)

	time.Sleep(60 * time.Millisecond)
	_, ok := s.Get("k")
	assert.False(t, ok)
}
