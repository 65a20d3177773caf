package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger removes stale entries and reports how many it dropped.
// *cache.Store satisfies it.
type Purger interface {
	PurgeStale() int
}

// CacheSweeper periodically evicts cache entries whose family token was
// cancelled. Reads already skip such entries; sweeping frees the memory
// without waiting for the LRU to push them out.
type CacheSweeper struct {
	store    Purger
	interval time.Duration
	logger   *zap.Logger
}

func NewCacheSweeper(store Purger, interval time.Duration, logger *zap.Logger) *CacheSweeper {
	return &CacheSweeper{store: store, interval: interval, logger: logger}
}

// Run ticks every interval until ctx is cancelled.
func (cs *CacheSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(cs.interval)
	defer ticker.Stop()

	cs.logger.Info("cache sweeper started", zap.Duration("interval", cs.interval))

	for {
		select {
		case <-ctx.Done():
			cs.logger.Info("cache sweeper stopping")
			return
		case <-ticker.C:
			cs.sweep()
		}
	}
}

func (cs *CacheSweeper) sweep() {
	if n := cs.store.PurgeStale(); n > 0 {
		cs.logger.Debug("purged stale cache entries", zap.Int("count", n))
	}
}
