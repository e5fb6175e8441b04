package ticker

import (
	"context"
	"time"

	"github.com/oshokin/alarm-clock/internal/clock"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// DefaultInterval is the nominal 1 Hz tick cadence.
const DefaultInterval = time.Second

// TickFunc receives the current time on every tick.
type TickFunc func(ctx context.Context, now time.Time)

// Run calls tick once immediately and then every interval until ctx is canceled.
// It always returns nil after cancellation, mirroring the polling loops of the
// other services.
func Run(ctx context.Context, clk clock.Clock, interval time.Duration, tick TickFunc) error {
	ctx = logger.WithName(ctx, "ticker")

	if interval <= 0 {
		interval = DefaultInterval
	}

	logger.InfoKV(ctx, "Tick driver started", "interval", interval.String())

	// Check right away so an alarm set for the current minute is not delayed.
	tick(ctx, clk.Now())

	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Tick driver stopped")
			return nil
		case <-ticker.C():
			tick(ctx, clk.Now())
		}
	}
}
