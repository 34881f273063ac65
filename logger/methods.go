package logger

import (
	"time"

	"github.com/philipp01105/agentlog/core"
)

// The methods below are the per-severity surface of Logger. Each level
// has a plain call, a Once variant deduplicated by key for the lifetime
// of the logger, a OncePer variant deduplicated within an interval, and
// an Enabled predicate that checks the threshold only.

// Trace logs at trace level, for very detailed diagnostics.
func (l *Logger) Trace(args ...any) bool {
	return l.levels[traceIndex].log(args)
}

// TraceOnce logs at trace level the first time key is seen.
func (l *Logger) TraceOnce(key string, args ...any) bool {
	return l.levels[traceIndex].logOnce(core.TraceLevel, key, args)
}

// TraceOncePer logs at trace level at most once per interval for key.
func (l *Logger) TraceOncePer(key string, interval time.Duration, args ...any) bool {
	return l.levels[traceIndex].logOncePer(core.TraceLevel, key, interval, args)
}

// TraceEnabled reports whether trace entries meet the threshold.
func (l *Logger) TraceEnabled() bool {
	return l.levels[traceIndex].enabled()
}

// Debug logs at debug level, for debugging information.
func (l *Logger) Debug(args ...any) bool {
	return l.levels[debugIndex].log(args)
}

// DebugOnce logs at debug level the first time key is seen.
func (l *Logger) DebugOnce(key string, args ...any) bool {
	return l.levels[debugIndex].logOnce(core.DebugLevel, key, args)
}

// DebugOncePer logs at debug level at most once per interval for key.
func (l *Logger) DebugOncePer(key string, interval time.Duration, args ...any) bool {
	return l.levels[debugIndex].logOncePer(core.DebugLevel, key, interval, args)
}

// DebugEnabled reports whether debug entries meet the threshold.
func (l *Logger) DebugEnabled() bool {
	return l.levels[debugIndex].enabled()
}

// Info logs at info level, for informational messages.
func (l *Logger) Info(args ...any) bool {
	return l.levels[infoIndex].log(args)
}

// InfoOnce logs at info level the first time key is seen.
func (l *Logger) InfoOnce(key string, args ...any) bool {
	return l.levels[infoIndex].logOnce(core.InfoLevel, key, args)
}

// InfoOncePer logs at info level at most once per interval for key.
func (l *Logger) InfoOncePer(key string, interval time.Duration, args ...any) bool {
	return l.levels[infoIndex].logOncePer(core.InfoLevel, key, interval, args)
}

// InfoEnabled reports whether info entries meet the threshold.
func (l *Logger) InfoEnabled() bool {
	return l.levels[infoIndex].enabled()
}

// Warn logs at warn level, for warnings.
func (l *Logger) Warn(args ...any) bool {
	return l.levels[warnIndex].log(args)
}

// WarnOnce logs at warn level the first time key is seen.
func (l *Logger) WarnOnce(key string, args ...any) bool {
	return l.levels[warnIndex].logOnce(core.WarnLevel, key, args)
}

// WarnOncePer logs at warn level at most once per interval for key.
func (l *Logger) WarnOncePer(key string, interval time.Duration, args ...any) bool {
	return l.levels[warnIndex].logOncePer(core.WarnLevel, key, interval, args)
}

// WarnEnabled reports whether warn entries meet the threshold.
func (l *Logger) WarnEnabled() bool {
	return l.levels[warnIndex].enabled()
}

// Error logs at error level, for errors.
func (l *Logger) Error(args ...any) bool {
	return l.levels[errorIndex].log(args)
}

// ErrorOnce logs at error level the first time key is seen.
func (l *Logger) ErrorOnce(key string, args ...any) bool {
	return l.levels[errorIndex].logOnce(core.ErrorLevel, key, args)
}

// ErrorOncePer logs at error level at most once per interval for key.
func (l *Logger) ErrorOncePer(key string, interval time.Duration, args ...any) bool {
	return l.levels[errorIndex].logOncePer(core.ErrorLevel, key, interval, args)
}

// ErrorEnabled reports whether error entries meet the threshold.
func (l *Logger) ErrorEnabled() bool {
	return l.levels[errorIndex].enabled()
}

// Fatal logs at fatal level, for fatal conditions; it never exits the process.
func (l *Logger) Fatal(args ...any) bool {
	return l.levels[fatalIndex].log(args)
}

// FatalOnce logs at fatal level the first time key is seen.
func (l *Logger) FatalOnce(key string, args ...any) bool {
	return l.levels[fatalIndex].logOnce(core.FatalLevel, key, args)
}

// FatalOncePer logs at fatal level at most once per interval for key.
func (l *Logger) FatalOncePer(key string, interval time.Duration, args ...any) bool {
	return l.levels[fatalIndex].logOncePer(core.FatalLevel, key, interval, args)
}

// FatalEnabled reports whether fatal entries meet the threshold.
func (l *Logger) FatalEnabled() bool {
	return l.levels[fatalIndex].enabled()
}
