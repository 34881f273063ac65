// Package warning emits process-level, non-fatal warnings on stderr.
//
// Warnings are rate limited by their Once: each Once fires at most one
// warning for its lifetime, so a condition that repeats on every log
// call still produces a single line.
package warning

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(newStderr())
}

func newStderr() *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(os.Stderr),
		zapcore.WarnLevel,
	)
	return zap.New(core).Named("agentlog")
}

// SetCore redirects warnings to c and returns a function restoring the
// previous destination.
func SetCore(c zapcore.Core) (restore func()) {
	prev := current.Swap(zap.New(c).Named("agentlog"))
	return func() { current.Store(prev) }
}

// Emit writes a warning identified by code.
func Emit(code, msg string, fields ...zap.Field) {
	current.Load().Warn(msg, append(fields, zap.String("code", code))...)
}

// Once emits a given warning at most once.
type Once struct {
	once sync.Once
}

// Emit writes the warning on the first call only. It reports whether
// this call emitted.
func (o *Once) Emit(code, msg string, fields ...zap.Field) bool {
	fired := false
	o.once.Do(func() {
		Emit(code, msg, fields...)
		fired = true
	})
	return fired
}
