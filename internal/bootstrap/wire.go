package bootstrap

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go-panopticon/internal/bot"
	"go-panopticon/internal/dispatcher"
	"go-panopticon/internal/logging"
	"go-panopticon/internal/logpath"
	"go-panopticon/internal/logwriter"
	"go-panopticon/internal/metrics"
	"go-panopticon/internal/output"
	"go-panopticon/internal/record"
	"go-panopticon/internal/watchdog"
)

type Components struct {
	// Recording pipeline
	Paths      *logpath.Builder
	Formatter  *record.Formatter
	Writer     *logwriter.Writer
	Console    *output.Console
	Dispatcher *dispatcher.Dispatcher
	Pool       *dispatcher.Pool
	Session    *bot.Session

	// Monitoring
	Counters        *metrics.Counters
	Watchdog        *watchdog.Watchdog
	metricsInterval time.Duration

	stopReport context.CancelFunc
	reportWG   sync.WaitGroup
}

func Wire(b *Bootstrap) error {
	logging.Info("Wiring components...")
	cfg := b.Config

	paths := logpath.NewBuilder(cfg.LogDir)
	formatter := record.NewFormatter(cfg.UseLocaltime)
	writer := logwriter.New(logwriter.WithRetries(cfg.WriteRetries))
	console := output.NewConsole(os.Stdout)
	counters := metrics.NewCounters()

	d := dispatcher.New(cfg, paths, formatter, writer, console, counters)
	pool := dispatcher.NewPool(d, cfg.Agent.Workers, cfg.Agent.QueueDepth)

	session, err := bot.NewSession(cfg)
	if err != nil {
		return fmt.Errorf("gateway session: %w", err)
	}

	b.Components = &Components{
		Paths:           paths,
		Formatter:       formatter,
		Writer:          writer,
		Console:         console,
		Dispatcher:      d,
		Pool:            pool,
		Session:         session,
		Counters:        counters,
		Watchdog:        watchdog.NewWatchdog(cfg.LogDir, cfg.Agent.MinFreeMB, cfg.Agent.DiskCheckInterval),
		metricsInterval: cfg.Agent.MetricsInterval,
	}

	logging.Info("Component wiring complete")
	return nil
}

// StartAll starts the pipeline back to front so that no event is accepted
// before something is ready to store it.
func StartAll(ctx context.Context, c *Components) error {
	logging.Info("Starting components...")

	c.Watchdog.Start(ctx)

	c.Pool.Start()
	logging.Info("Dispatch pool started")

	c.startReporter(ctx)

	c.Session.SetupEventHandlers(ctx, c.Pool)
	if err := c.Session.Connect(); err != nil {
		return fmt.Errorf("gateway connection failed: %w", err)
	}

	logging.Info("All components started")
	return nil
}

func (c *Components) startReporter(ctx context.Context) {
	if c.metricsInterval <= 0 {
		return
	}

	ctx, c.stopReport = context.WithCancel(ctx)
	c.reportWG.Add(1)
	go func() {
		defer c.reportWG.Done()

		ticker := time.NewTicker(c.metricsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logging.Info("Metrics: %s", c.Counters.Export())
			}
		}
	}()
}
