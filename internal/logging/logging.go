// Package logging is the process-wide structured logger. Calls made
// before Init are dropped, so library code can log unconditionally.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Options configures the logger.
type Options struct {
	Debug  bool
	Writer io.Writer // Defaults to stderr
}

var (
	mu       sync.RWMutex
	instance *log.Logger
)

// Init installs the process logger.
func Init(opts Options) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	mu.Lock()
	instance = logger
	mu.Unlock()
}

// Reset removes the installed logger.
func Reset() {
	mu.Lock()
	instance = nil
	mu.Unlock()
}

func get() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Debug writes a message at DEBUG level.
func Debug(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Debug(message, keyvals...)
	}
}

// Info writes a message at INFO level.
func Info(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Info(message, keyvals...)
	}
}

// Warn writes a message at WARN level.
func Warn(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Warn(message, keyvals...)
	}
}

// Error writes a message at ERROR level.
func Error(message string, keyvals ...any) {
	if l := get(); l != nil {
		l.Error(message, keyvals...)
	}
}
