package attempt

import (
	"context"
	"time"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// runAutosave periodically pushes the current snapshot to the gateway
// so a crash or reload loses at most one interval of work. Each save
// runs in its own goroutine so a slow gateway never delays the next
// scheduled firing; failures are logged and superseded by the next
// snapshot (last-write-wins, no retry queue).
func (c *Controller) runAutosave(ctx context.Context) {
	ticker := time.NewTicker(c.opts.AutosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapshot := c.store.Snapshot()
			go c.save(ctx, snapshot)
		}
	}
}

// save pushes one snapshot. Deriving the timeout context from the run
// context releases the in-flight request when the attempt view is torn
// down.
func (c *Controller) save(ctx context.Context, snapshot []model.AttemptAnswer) {
	saveCtx, cancel := context.WithTimeout(ctx, c.opts.SaveTimeout)
	defer cancel()

	if err := c.gw.SaveProgress(saveCtx, c.attempt.AttemptID, snapshot); err != nil {
		c.log.Warn().Err(err).Int("entries", len(snapshot)).Msg("Autosave failed")
		return
	}
	c.log.Debug().Int("entries", len(snapshot)).Msg("Autosave ok")
}
