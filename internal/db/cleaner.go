package db

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger removes delivery records older than the cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// StartDeliveryCleaner purges old delivery records with interval
func StartDeliveryCleaner(
	ctx context.Context,
	purger Purger,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				removed, err := purger.PurgeOlderThan(ctx, cutoff)
				if err != nil {
					log.Error("failed to purge old deliveries", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("purged old deliveries", zap.Int64("removed", removed))
				}
			}
		}
	}()
}
