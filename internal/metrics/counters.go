package metrics

import (
	"fmt"
	"sync/atomic"
	"time"
)

type Outcome uint8

const (
	OutcomeRecorded Outcome = iota
	OutcomeIgnored
	OutcomeDropped
	OutcomeFailed
)

// Counters tracks what happened to each dispatched event.
type Counters struct {
	received      *EventRateCounter
	recorded      atomic.Uint64
	ignored       atomic.Uint64
	dropped       atomic.Uint64
	failed        atomic.Uint64
	appendLatency *LatencyHistogram
}

func NewCounters() *Counters {
	return &Counters{
		received:      NewEventRateCounter(),
		appendLatency: NewLatencyHistogram(),
	}
}

func (c *Counters) Received() {
	c.received.Increment()
}

func (c *Counters) Record(o Outcome) {
	switch o {
	case OutcomeRecorded:
		c.recorded.Add(1)
	case OutcomeIgnored:
		c.ignored.Add(1)
	case OutcomeDropped:
		c.dropped.Add(1)
	case OutcomeFailed:
		c.failed.Add(1)
	}
}

func (c *Counters) ObserveAppend(d time.Duration) {
	c.appendLatency.Record(d)
}

type Snapshot struct {
	Received  uint64
	Recorded  uint64
	Ignored   uint64
	Dropped   uint64
	Failed    uint64
	EventRate float64
	Append    LatencyStats
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Received:  c.received.GetCount(),
		Recorded:  c.recorded.Load(),
		Ignored:   c.ignored.Load(),
		Dropped:   c.dropped.Load(),
		Failed:    c.failed.Load(),
		EventRate: c.received.GetRate(),
		Append:    c.appendLatency.GetStats(),
	}
}

// Export renders a one-line summary for the operator log.
func (c *Counters) Export() string {
	s := c.Snapshot()
	return fmt.Sprintf(
		"events_received=%d recorded=%d ignored=%d dropped=%d failed=%d rate_eps=%.2f append_avg=%v append_max=%v",
		s.Received, s.Recorded, s.Ignored, s.Dropped, s.Failed, s.EventRate, s.Append.Avg, s.Append.Max,
	)
}
