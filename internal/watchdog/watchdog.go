package watchdog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go-panopticon/internal/logging"

	"github.com/shirou/gopsutil/v3/disk"
)

const bytesPerMB = 1024 * 1024

// UsageFunc reports filesystem usage for a path.
type UsageFunc func(ctx context.Context, path string) (*disk.UsageStat, error)

// Status is the result of one disk check.
type Status struct {
	Path   string
	FreeMB uint64
	Low    bool
}

// Watchdog periodically checks free space on the filesystem holding the log
// root.
type Watchdog struct {
	path      string
	minFreeMB uint64
	interval  time.Duration
	usage     UsageFunc

	low     atomic.Bool
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewWatchdog(path string, minFreeMB uint64, interval time.Duration) *Watchdog {
	return &Watchdog{
		path:      path,
		minFreeMB: minFreeMB,
		interval:  interval,
		usage:     disk.UsageWithContext,
	}
}

// WithUsage replaces the usage source.
func (w *Watchdog) WithUsage(fn UsageFunc) *Watchdog {
	w.usage = fn
	return w
}

// Start runs the check loop until ctx is cancelled or Stop is called. A zero
// interval or threshold disables the loop.
func (w *Watchdog) Start(ctx context.Context) {
	if w.interval <= 0 || w.minFreeMB == 0 {
		logging.Info("Disk watchdog disabled")
		return
	}
	if !w.running.CompareAndSwap(false, true) {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.monitorLoop(ctx)
}

func (w *Watchdog) monitorLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.checkAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkAndLog(ctx)
		}
	}
}

func (w *Watchdog) checkAndLog(ctx context.Context) {
	if _, err := w.Check(ctx); err != nil {
		logging.Warn("Disk watchdog: %v", err)
	}
}

// Check measures free space once. It warns on every check while space is
// low and logs recovery once when it comes back.
func (w *Watchdog) Check(ctx context.Context) (Status, error) {
	target := existingAncestor(w.path)
	usage, err := w.usage(ctx, target)
	if err != nil {
		return Status{Path: target}, fmt.Errorf("failed to read disk usage for %s: %w", target, err)
	}

	st := Status{
		Path:   target,
		FreeMB: usage.Free / bytesPerMB,
	}
	st.Low = st.FreeMB < w.minFreeMB

	wasLow := w.low.Swap(st.Low)
	switch {
	case st.Low:
		logging.Warn("Low disk space for %s: %d MB free, threshold %d MB", target, st.FreeMB, w.minFreeMB)
	case wasLow:
		logging.Info("Disk space recovered for %s: %d MB free", target, st.FreeMB)
	}

	return st, nil
}

// IsLow reports the result of the last check.
func (w *Watchdog) IsLow() bool {
	return w.low.Load()
}

func (w *Watchdog) Stop() {
	if !w.running.CompareAndSwap(true, false) {
		return
	}
	w.cancel()
	w.wg.Wait()
}

// existingAncestor returns path or its closest existing parent. The log root
// is created lazily by the first append.
func existingAncestor(path string) string {
	p := filepath.Clean(path)
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
