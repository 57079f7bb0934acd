package feed

import (
	"context"
	"time"
)

type bootstrapState struct {
	step int
	done bool
}

// Bootstrap runs the configured seed keywords through the fresh-search path,
// strictly sequentially, with a fixed delay after each completion. A failing
// seed is logged and skipped; it never aborts the remaining seeds. The whole
// sequence stops early when ctx is cancelled, checked between steps.
//
// Bootstrap runs exactly once per controller lifetime; further calls are
// no-ops.
func (c *Controller) Bootstrap(ctx context.Context) {
	c.bootOnce.Do(func() {
		c.runSeeds(ctx)
	})
}

func (c *Controller) runSeeds(ctx context.Context) {
	seeds := c.cfg.Seeds
	c.logger.Info().Int("seeds", len(seeds)).Msg("Bootstrap starting")

	for i, keyword := range seeds {
		if ctx.Err() != nil {
			c.logger.Info().Int("completed", i).Msg("Bootstrap cancelled")
			return
		}

		start := time.Now()
		merged, err := c.StartSearch(ctx, keyword)
		bootstrapStepDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			c.logger.Warn().Err(err).Str("keyword", keyword).Msg("Bootstrap seed failed")
		} else {
			c.logger.Info().Str("keyword", keyword).Int("merged", merged).Msg("Bootstrap seed merged")
		}

		c.mu.Lock()
		c.bootState.step = i + 1
		c.mu.Unlock()

		// Fixed inter-step delay regardless of the step's outcome.
		if i < len(seeds)-1 {
			select {
			case <-ctx.Done():
				c.logger.Info().Int("completed", i+1).Msg("Bootstrap cancelled")
				return
			case <-time.After(c.cfg.SeedDelay):
			}
		}
	}

	c.mu.Lock()
	c.bootState.done = true
	c.mu.Unlock()
	c.logger.Info().Msg("Bootstrap complete")
}
