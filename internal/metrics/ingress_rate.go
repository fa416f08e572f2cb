package metrics

import (
	"sync/atomic"
	"time"
)

type EventRateCounter struct {
	events    uint64
	startTime int64
}

func NewEventRateCounter() *EventRateCounter {
	return &EventRateCounter{
		startTime: time.Now().UnixNano(),
	}
}

func (c *EventRateCounter) Increment() {
	atomic.AddUint64(&c.events, 1)
}

// GetRate returns events per second since start or the last Reset.
func (c *EventRateCounter) GetRate() float64 {
	events := atomic.LoadUint64(&c.events)
	elapsed := time.Now().UnixNano() - atomic.LoadInt64(&c.startTime)

	if elapsed <= 0 {
		return 0
	}

	return float64(events) / (float64(elapsed) / 1e9)
}

func (c *EventRateCounter) GetCount() uint64 {
	return atomic.LoadUint64(&c.events)
}

func (c *EventRateCounter) Reset() {
	atomic.StoreUint64(&c.events, 0)
	atomic.StoreInt64(&c.startTime, time.Now().UnixNano())
}
