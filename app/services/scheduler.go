package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper is a cache that can drop its expired entries.
type Sweeper interface {
	Sweep() int
}

// StartScheduler starts the background cache sweeper. It stops when ctx is done.
func StartScheduler(ctx context.Context, cache Sweeper, every time.Duration, log *zap.Logger) {
	go func() {
		log.Info("scheduler started", zap.Duration("every", every))
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("scheduler stopped")
				return
			case <-ticker.C:
				if n := cache.Sweep(); n > 0 {
					log.Debug("swept expired cache entries", zap.Int("removed", n))
				}
			}
		}
	}()
}
