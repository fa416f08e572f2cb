package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

const rotationPeriod = 24 * time.Hour

// newRotatingFile opens a writer that starts a new file named
// <path>.YYYY-MM-DD every UTC day and keeps <path> as a link to the current one.
func newRotatingFile(path string, maxAge time.Duration) (*rotatelogs.RotateLogs, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	if maxAge <= 0 {
		maxAge = -1
	}

	rl, err := rotatelogs.New(
		path+".%Y-%m-%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(rotationPeriod),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithClock(rotatelogs.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init log file rotator: %w", err)
	}
	return rl, nil
}

// CurrentFile returns the file the global logger is writing to, or "" when
// it has no file sink.
func CurrentFile() string {
	l := globalLogger.Load()
	if l == nil {
		return ""
	}
	if rl, ok := l.closer.(*rotatelogs.RotateLogs); ok {
		if name := rl.CurrentFileName(); name != "" {
			return name
		}
	}
	// Nothing written yet; the link name is where lines will appear.
	return l.path
}
