package dispatcher

import (
	"fmt"
	"time"

	"go-panopticon/internal/config"
	"go-panopticon/internal/logging"
	"go-panopticon/internal/logpath"
	"go-panopticon/internal/metrics"
	"go-panopticon/internal/models"
	"go-panopticon/internal/record"
)

// Appender stores one record at a path.
type Appender interface {
	Append(path, line string) error
}

// Mirror shows a stored record to the operator.
type Mirror interface {
	Print(kind models.EventKind, record string) error
}

// Dispatcher turns gateway events into stored records. It is the only place
// the ignore list is consulted. Safe for concurrent use.
type Dispatcher struct {
	cfg       *config.Config
	paths     *logpath.Builder
	formatter *record.Formatter
	writer    Appender
	console   Mirror
	counters  *metrics.Counters
}

func New(cfg *config.Config, paths *logpath.Builder, formatter *record.Formatter, writer Appender, console Mirror, counters *metrics.Counters) *Dispatcher {
	if counters == nil {
		counters = metrics.NewCounters()
	}
	return &Dispatcher{
		cfg:       cfg,
		paths:     paths,
		formatter: formatter,
		writer:    writer,
		console:   console,
		counters:  counters,
	}
}

// Dispatch records one event. Events from ignored guilds and events of an
// unhandled shape return nil without touching disk or console. A failed
// append is logged and returned; the caller keeps dispatching.
func (d *Dispatcher) Dispatch(ev models.Event) error {
	d.counters.Received()

	if guildID, ok := ev.GuildID(); ok && d.cfg.IsIgnored(guildID) {
		d.counters.Record(metrics.OutcomeIgnored)
		return nil
	}

	path, ok := d.paths.EventPath(&ev)
	if !ok {
		d.drop(ev, "no log path")
		return nil
	}

	line, ok := d.formatter.Event(&ev)
	if !ok {
		d.drop(ev, "no record format")
		return nil
	}

	start := time.Now()
	err := d.writer.Append(path, line)
	d.counters.ObserveAppend(time.Since(start))
	if err != nil {
		d.counters.Record(metrics.OutcomeFailed)
		logging.Error("Record lost for %s: %v", ev.Kind, err)
		return fmt.Errorf("dispatch %s: %w", ev.Kind, err)
	}
	d.counters.Record(metrics.OutcomeRecorded)

	if d.console != nil {
		if err := d.console.Print(ev.Kind, line); err != nil {
			logging.Warn("Console mirror failed: %v", err)
		}
	}

	return nil
}

func (d *Dispatcher) drop(ev models.Event, reason string) {
	d.counters.Record(metrics.OutcomeDropped)
	logging.Debug("[GAP] Dropped %s event: %s", ev.Kind, reason)
}

func (d *Dispatcher) Counters() *metrics.Counters {
	return d.counters
}
