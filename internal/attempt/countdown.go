package attempt

import (
	"context"
	"errors"
	"time"
)

// runCountdown re-derives the remaining time from the absolute expiry
// every tick and forces submission when it reaches zero. The loop
// returns after the expiry submit is attempted, so the finalizer can
// never be invoked twice from here.
func (c *Controller) runCountdown(ctx context.Context) {
	ticker := time.NewTicker(c.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining := c.Remaining()
			if c.opts.OnTick != nil {
				c.opts.OnTick(remaining)
			}
			if remaining > 0 {
				continue
			}

			c.expired.Store(true)
			c.log.Info().Msg("Time expired, auto-submitting")

			if _, err := c.Submit(ctx); err != nil {
				// A manual submit winning the race is fine. A real
				// failure is kept for the view to offer a retry.
				if !errors.Is(err, ErrSubmitInFlight) && !errors.Is(err, ErrFinished) {
					c.log.Error().Err(err).Msg("Auto-submit failed")
				}
			}
			return
		}
	}
}
