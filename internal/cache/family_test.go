package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifyhub/dashcore/internal/cache"
)

func TestFamily_GetOrCreateReturnsSameLiveToken(t *testing.T) {
	f := cache.NewFamily("customers", time.Minute)

	a := f.GetOrCreate()
	b := f.GetOrCreate()
	assert.Same(t, a, b)
	assert.False(t, a.Canceled())
}

func TestFamily_RefreshReplacesToken(t *testing.T) {
	f := cache.NewFamily("customers", time.Minute)

	old := f.GetOrCreate()
	f.Refresh()

	assert.True(t, old.Canceled())
	select {
	case <-old.Done():
	default:
		t.Fatal("Done must be closed after refresh")
	}

	fresh := f.GetOrCreate()
	assert.NotSame(t, old, fresh)
	assert.NotEqual(t, old.ID(), fresh.ID())
	assert.False(t, fresh.Canceled())
}

func TestFamily_RefreshBeforeFirstUseIsNoop(t *testing.T) {
	f := cache.NewFamily("customers", time.Minute)
	f.Refresh()

	tok := f.GetOrCreate()
	assert.False(t, tok.Canceled())
}

func TestFamily_RefreshOfExpiredTokenIsNoop(t *testing.T) {
	f := cache.NewFamily("customers", 20*time.Millisecond)
	old := f.GetOrCreate()
	<-old.Done()

	assert.NotPanics(t, f.Refresh)
	assert.True(t, f.State().Canceled, "an expired token is replaced lazily, not by Refresh")

	fresh := f.GetOrCreate()
	assert.NotSame(t, old, fresh)
	assert.False(t, fresh.Canceled())
}

func TestFamily_TokenExpiresAfterTTL(t *testing.T) {
	f := cache.NewFamily("customers", 50*time.Millisecond)

	old := f.GetOrCreate()
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), old.ExpiresAt(), 20*time.Millisecond)

	time.Sleep(80 * time.Millisecond)
	assert.True(t, old.Canceled())

	fresh := f.GetOrCreate()
	assert.NotSame(t, old, fresh)
	assert.False(t, fresh.Canceled())
	assert.True(t, fresh.ExpiresAt().After(old.ExpiresAt()))
}

func TestFamily_ConcurrentRefreshLeavesOneLiveToken(t *testing.T) {
	f := cache.NewFamily("customers", time.Minute)
	f.GetOrCreate()

	const workers = 32
	seen := make([]*cache.Token, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			f.Refresh()
			seen[i] = f.GetOrCreate()
		}(i)
	}
	close(start)
	wg.Wait()

	current := f.GetOrCreate()
	require.False(t, current.Canceled())
	for _, tok := range seen {
		if tok != current {
			assert.True(t, tok.Canceled(), "only the current token may be live")
		}
	}
}

func TestRegistry(t *testing.T) {
	var refreshed []string
	r := cache.NewRegistry(time.Minute, func(name string) { refreshed = append(refreshed, name) })

	customers := r.Family("customers")
	assert.Same(t, customers, r.Family("customers"))

	_, ok := r.Lookup("products")
	assert.False(t, ok)

	c := customers.GetOrCreate()
	p := r.Family("products").GetOrCreate()

	r.Refresh("customers")
	assert.True(t, c.Canceled())
	assert.False(t, p.Canceled(), "families are independent")
	assert.Equal(t, []string{"customers"}, refreshed)

	states := r.Snapshot()
	require.Len(t, states, 2)
	assert.Equal(t, "customers", states[0].Name)
	assert.Equal(t, "products", states[1].Name)
	assert.NotEmpty(t, states[0].TokenID)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "customers", cache.Key("customers"))
	assert.Equal(t, "customers:id=42", cache.Key("customers", "id", 42))
	assert.Equal(t,
		"customers:list:keyword=acme;order=name;page=2",
		cache.Key("customers:list", "keyword", "acme", "order", "name", "page", 2))
	assert.Equal(t, "x:a=1;b=", cache.Key("x", "a", 1, "b"))
}
