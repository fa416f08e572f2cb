package bootstrap

import (
	"errors"

	"go-panopticon/internal/logging"
)

// Shutdown stops intake first, then drains every queued event to disk.
func Shutdown(c *Components) error {
	logging.Info("Starting graceful shutdown...")
	var errs []error

	if c.Session != nil {
		logging.Info("Closing gateway session...")
		if err := c.Session.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Pool != nil {
		logging.Info("Draining dispatch queues...")
		c.Pool.Stop()
	}

	if c.Watchdog != nil {
		c.Watchdog.Stop()
	}

	if c.stopReport != nil {
		c.stopReport()
		c.reportWG.Wait()
	}

	if c.Counters != nil {
		logging.Info("Metrics: %s", c.Counters.Export())
	}

	logging.Info("Graceful shutdown complete")
	return errors.Join(errs...)
}
