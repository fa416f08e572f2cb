package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type LogLevel uint8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// Logger is the agent's own diagnostic log. It is separate from the chat
// records, which go through logwriter.
type Logger struct {
	level   LogLevel
	output  io.Writer
	closer  io.Closer
	path    string
	logChan chan string
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewLogger writes to stderr and to a file at path that rolls over daily.
// Rolled files older than maxAge are removed; maxAge <= 0 keeps them all.
func NewLogger(level LogLevel, path string, maxAge time.Duration) (*Logger, error) {
	file, err := newRotatingFile(path, maxAge)
	if err != nil {
		return nil, err
	}

	l := newLogger(level, io.MultiWriter(os.Stderr, file))
	l.closer = file
	l.path = path
	return l, nil
}

// NewWriterLogger writes to w only.
func NewWriterLogger(level LogLevel, w io.Writer) *Logger {
	return newLogger(level, w)
}

func newLogger(level LogLevel, w io.Writer) *Logger {
	l := &Logger{
		level:   level,
		output:  w,
		logChan: make(chan string, 10000), // Large buffer for bursts
	}

	l.wg.Add(1)
	go l.worker()

	return l
}

func (l *Logger) worker() {
	defer l.wg.Done()
	for line := range l.logChan {
		io.WriteString(l.output, line)
	}
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	levelStr := l.levelString(level)
	message := fmt.Sprintf(format, args...)

	line := fmt.Sprintf("[%s] [%s] %s\n", timestamp, levelStr, message)

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}

	// Failures must reach the operator, so only low levels may be shed.
	if level >= LevelError {
		l.logChan <- line
		return
	}

	select {
	case l.logChan <- line:
	default:
		// Drop log if buffer full to avoid blocking event dispatch
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

func (l *Logger) Critical(format string, args ...interface{}) {
	l.log(LevelCritical, format, args...)
}

func (l *Logger) levelString(level LogLevel) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Close flushes pending lines. Lines logged after Close are discarded.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.logChan)
	l.mu.Unlock()

	l.wg.Wait()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var globalLogger atomic.Pointer[Logger]

func InitGlobalLogger(level LogLevel, path string, maxAge time.Duration) error {
	logger, err := NewLogger(level, path, maxAge)
	if err != nil {
		return err
	}
	globalLogger.Store(logger)
	return nil
}

func SetGlobalLogger(l *Logger) {
	globalLogger.Store(l)
}

// Global returns the process logger, or nil before InitGlobalLogger.
func Global() *Logger {
	return globalLogger.Load()
}

func Debug(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Debug(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Info(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Warn(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Error(format, args...)
	}
}

func Critical(format string, args ...interface{}) {
	if l := globalLogger.Load(); l != nil {
		l.Critical(format, args...)
	}
}
