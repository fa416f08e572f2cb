package metrics

import (
	"sync/atomic"
	"time"
)

// Upper bounds of the append latency buckets; the last bucket is open ended.
var latencyBounds = [...]time.Duration{
	100 * time.Microsecond,
	time.Millisecond,
	10 * time.Millisecond,
	100 * time.Millisecond,
	time.Second,
}

type LatencyHistogram struct {
	buckets [len(latencyBounds) + 1]uint64
	min     uint64
	max     uint64
	count   uint64
	sum     uint64
}

func NewLatencyHistogram() *LatencyHistogram {
	return &LatencyHistogram{}
}

func (lh *LatencyHistogram) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}
	ns := uint64(d)

	atomic.AddUint64(&lh.count, 1)
	atomic.AddUint64(&lh.sum, ns)

	for {
		oldMin := atomic.LoadUint64(&lh.min)
		if oldMin != 0 && ns >= oldMin {
			break
		}
		if atomic.CompareAndSwapUint64(&lh.min, oldMin, ns) {
			break
		}
	}

	for {
		oldMax := atomic.LoadUint64(&lh.max)
		if ns <= oldMax {
			break
		}
		if atomic.CompareAndSwapUint64(&lh.max, oldMax, ns) {
			break
		}
	}

	atomic.AddUint64(&lh.buckets[bucketIndex(d)], 1)
}

func bucketIndex(d time.Duration) int {
	for i, bound := range latencyBounds {
		if d < bound {
			return i
		}
	}
	return len(latencyBounds)
}

func (lh *LatencyHistogram) GetStats() LatencyStats {
	count := atomic.LoadUint64(&lh.count)
	sum := atomic.LoadUint64(&lh.sum)

	avg := uint64(0)
	if count > 0 {
		avg = sum / count
	}

	stats := LatencyStats{
		Min:   time.Duration(atomic.LoadUint64(&lh.min)),
		Max:   time.Duration(atomic.LoadUint64(&lh.max)),
		Avg:   time.Duration(avg),
		Count: count,
	}
	for i := range lh.buckets {
		stats.Buckets[i] = atomic.LoadUint64(&lh.buckets[i])
	}
	return stats
}

type LatencyStats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Count   uint64
	Buckets [len(latencyBounds) + 1]uint64
}
