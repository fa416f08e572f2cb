package watchdog

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
)

func fixedUsage(freeMB *atomic.Uint64, seen *atomic.Value) UsageFunc {
	return func(ctx context.Context, path string) (*disk.UsageStat, error) {
		if seen != nil {
			seen.Store(path)
		}
		return &disk.UsageStat{Path: path, Free: freeMB.Load() * bytesPerMB}, nil
	}
}

func TestCheckThreshold(t *testing.T) {
	var free atomic.Uint64
	free.Store(100)
	w := NewWatchdog(t.TempDir(), 512, time.Minute).WithUsage(fixedUsage(&free, nil))

	st, err := w.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !st.Low || st.FreeMB != 100 || !w.IsLow() {
		t.Errorf("status = %+v", st)
	}

	free.Store(2048)
	st, err = w.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Low || w.IsLow() {
		t.Errorf("expected recovery, got %+v", st)
	}
}

func TestCheckMissingLogRoot(t *testing.T) {
	root := t.TempDir()
	var free atomic.Uint64
	free.Store(1024)
	var seen atomic.Value

	w := NewWatchdog(filepath.Join(root, "not", "yet", "created"), 1, time.Minute).
		WithUsage(fixedUsage(&free, &seen))
	if _, err := w.Check(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := seen.Load().(string); got != root {
		t.Errorf("checked %q, want existing ancestor %q", got, root)
	}
}

func TestCheckUsageError(t *testing.T) {
	w := NewWatchdog(t.TempDir(), 1, time.Minute).WithUsage(
		func(ctx context.Context, path string) (*disk.UsageStat, error) {
			return nil, errors.New("statfs failed")
		})
	if _, err := w.Check(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestStartStop(t *testing.T) {
	var free atomic.Uint64
	free.Store(1)
	var calls atomic.Int32
	w := NewWatchdog(t.TempDir(), 10, 5*time.Millisecond).WithUsage(
		func(ctx context.Context, path string) (*disk.UsageStat, error) {
			calls.Add(1)
			return &disk.UsageStat{Free: free.Load() * bytesPerMB}, nil
		})

	w.Start(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()
	w.Stop()

	if calls.Load() < 3 {
		t.Fatalf("loop ran %d checks", calls.Load())
	}
	if !w.IsLow() {
		t.Error("expected low disk state")
	}

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Error("checks continued after Stop")
	}
}

func TestStartDisabled(t *testing.T) {
	w := NewWatchdog(t.TempDir(), 0, time.Minute)
	w.Start(context.Background())
	w.Stop()
}
