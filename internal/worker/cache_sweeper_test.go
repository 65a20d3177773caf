package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/worker"
)

type countingPurger struct{ calls atomic.Int32 }

func (p *countingPurger) PurgeStale() int {
	p.calls.Add(1)
	return 0
}

func TestCacheSweeper_TicksUntilCancelled(t *testing.T) {
	p := &countingPurger{}
	core, logs := observer.New(zap.InfoLevel)
	sw := worker.NewCacheSweeper(p, 5*time.Millisecond, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
	assert.Equal(t, 1, logs.FilterMessage("cache sweeper stopping").Len())
}

func TestCacheSweeper_PurgesRefreshedFamily(t *testing.T) {
	registry := cache.NewRegistry(time.Minute, nil)
	store := cache.NewStore(10, time.Hour, cache.StoreHooks{})
	store.Set("customers:id=1", "acme", registry.Family("customers").GetOrCreate())
	store.Set("orders:id=1", "order", registry.Family("orders").GetOrCreate())
	registry.Refresh("customers")

	sw := worker.NewCacheSweeper(store, 5*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sw.Run(ctx)

	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)
	_, ok := store.Get("orders:id=1")
	assert.True(t, ok)
}
