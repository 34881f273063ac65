package logger

import (
	"os"
	"sync"

	"github.com/philipp01105/agentlog/core"
)

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

func init() {
	defaultLogger = NewBuilder().
		WithLevel(core.InfoLevel).
		WithStream(os.Stdout).
		Build()
}

// Default returns the default logger
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Package-level convenience functions using the default logger

// Trace logs at trace level using the default logger
func Trace(args ...any) bool {
	return Default().Trace(args...)
}

// Debug logs at debug level using the default logger
func Debug(args ...any) bool {
	return Default().Debug(args...)
}

// Info logs at info level using the default logger
func Info(args ...any) bool {
	return Default().Info(args...)
}

// Warn logs at warn level using the default logger
func Warn(args ...any) bool {
	return Default().Warn(args...)
}

// Error logs at error level using the default logger
func Error(args ...any) bool {
	return Default().Error(args...)
}

// Fatal logs at fatal level using the default logger. It does not exit.
func Fatal(args ...any) bool {
	return Default().Fatal(args...)
}

// Child returns a child of the default logger
func Child(ctx core.Context) *Logger {
	return Default().Child(ctx)
}
