package logwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
	retryBackoff    = 50 * time.Millisecond
)

// Writer appends records to log files. Appends to one path are serialised;
// appends to different paths run independently. No file handle outlives a
// single Append call.
type Writer struct {
	locks    *lockRegistry
	retries  int
	fileMode os.FileMode
	dirMode  os.FileMode
}

type Option func(*Writer)

// WithRetries sets how many extra attempts are made when the directory or
// file cannot be opened. A failed write is never retried since part of the
// record may already be on disk.
func WithRetries(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.retries = n
		}
	}
}

func WithFileMode(mode os.FileMode) Option {
	return func(w *Writer) { w.fileMode = mode }
}

func WithDirMode(mode os.FileMode) Option {
	return func(w *Writer) { w.dirMode = mode }
}

func New(opts ...Option) *Writer {
	w := &Writer{
		locks:    newLockRegistry(),
		fileMode: defaultFileMode,
		dirMode:  defaultDirMode,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Append writes line plus a trailing newline to the file at path, creating
// parent directories as needed.
func (w *Writer) Append(path, line string) error {
	key := filepath.Clean(path)
	l := w.locks.acquire(key)
	defer w.locks.release(key, l)

	var (
		file *os.File
		err  error
	)
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryBackoff * time.Duration(attempt))
		}
		file, err = w.open(key)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}

	if err := lockFile(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to lock %s: %w", key, err)
	}

	_, werr := file.WriteString(line + "\n")
	unlockFile(file)
	cerr := file.Close()

	if werr != nil {
		return fmt.Errorf("failed to write %s: %w", key, werr)
	}
	if cerr != nil {
		return fmt.Errorf("failed to close %s: %w", key, cerr)
	}
	return nil
}

func (w *Writer) open(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), w.dirMode); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, w.fileMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// ActivePaths reports how many paths currently have an append in progress.
func (w *Writer) ActivePaths() int {
	return w.locks.size()
}
