package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// MonitorCacheHealth pings the cache every interval and records the outcome
// in healthy until ctx is cancelled. Transitions are logged once.
func MonitorCacheHealth(ctx context.Context, cache Pinger, healthy *atomic.Bool, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, interval)
			err := cache.Ping(pingCtx)
			cancel()

			isHealthy := err == nil
			wasHealthy := healthy.Swap(isHealthy)
			switch {
			case wasHealthy && !isHealthy:
				slog.Warn("[HealthCheck] Score cache is unhealthy, bypassing it",
					slog.String("error", err.Error()))
			case !wasHealthy && isHealthy:
				slog.Info("[HealthCheck] Score cache recovered")
			}
		}
	}
}
