package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger writes timestamped lines to a log file and keeps them in
// memory so a failure dialog can show the log without re-reading the
// file. All methods are safe on a nil receiver, so a caller that could
// not open a log file can keep going without one.
type Logger struct {
	mu    sync.Mutex
	f     *os.File
	path  string
	lines []string
}

// NewLogger creates a log file named {prefix}-{timestamp}.log in the
// temp directory and writes a session header.
func NewLogger(prefix string) (*Logger, error) {
	path := filepath.Join(os.TempDir(),
		fmt.Sprintf("%s-%s.log", prefix, time.Now().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &Logger{f: f, path: path}
	l.Info("=== %s Log ===", prefix)
	l.Info("Started: %s", time.Now().Format(time.RFC3339))
	l.Info("Log file: %s", path)
	return l, nil
}

// NewLoggerToFile opens path in append mode. This serves the /LOG=
// switch and the elevated relaunch, which continues the log file its
// parent started.
func NewLoggerToFile(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &Logger{f: f, path: path}, nil
}

// Info records an informational line.
func (l *Logger) Info(format string, args ...any) {
	l.write("INFO", format, args...)
}

// Warn records a non-fatal problem.
func (l *Logger) Warn(format string, args ...any) {
	l.write("WARN", format, args...)
}

// Error records a failure.
func (l *Logger) Error(format string, args ...any) {
	l.write("ERROR", format, args...)
}

// Step records a pipeline milestone.
func (l *Logger) Step(format string, args ...any) {
	l.write("STEP", format, args...)
}

func (l *Logger) write(level, format string, args ...any) {
	if l == nil {
		return
	}
	line := fmt.Sprintf("[%s] %s: %s",
		time.Now().Format("15:04:05.000"), level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	if l.f != nil {
		fmt.Fprintln(l.f, line)
		l.f.Sync()
	}
}

// Path returns the log file's location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Content returns everything logged so far as one string.
func (l *Logger) Content() string {
	if l == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

// Close writes the end marker and closes the file. The in-memory lines
// remain readable.
func (l *Logger) Close() {
	if l == nil || l.f == nil {
		return
	}
	l.Info("")
	l.Info("=== Log ended: %s ===", time.Now().Format(time.RFC3339))
	l.f.Close()
}
