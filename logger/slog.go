package logger

import (
	"context"
	"log/slog"

	"github.com/philipp01105/agentlog/core"
)

// SlogHandler is an adapter that implements slog.Handler on top of a
// Logger, so code written against log/slog shares its output, queue and
// threshold.
type SlogHandler struct {
	l     *Logger
	attrs core.Context
	group string
}

// NewSlogHandler creates a new slog.Handler adapter wrapping l.
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{l: l}
}

// Enabled reports whether records at level meet the logger threshold.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.l.Enabled(slogLevelToCore(level))
}

// Handle logs the record. The record time is not used; entries are
// stamped by the logger clock like every other call.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	ctx := core.Merge(s.attrs)
	record.Attrs(func(a slog.Attr) bool {
		addAttr(ctx, s.group, a)
		return true
	})
	s.l.Log(slogLevelToCore(record.Level), ctx, "%s", record.Message)
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	ctx := core.Merge(s.attrs)
	for _, a := range attrs {
		addAttr(ctx, s.group, a)
	}
	return &SlogHandler{l: s.l, attrs: ctx, group: s.group}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	group := name
	if s.group != "" {
		group = s.group + "." + name
	}
	return &SlogHandler{l: s.l, attrs: s.attrs, group: group}
}

// slogLevelToCore converts a slog.Level to a core.Level.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError+4:
		return core.FatalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// addAttr stores a into ctx, prepending the group prefix if present.
// Group attrs are flattened into dotted keys.
func addAttr(ctx core.Context, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			addAttr(ctx, key, ga)
		}
	case slog.KindTime:
		ctx[key] = a.Value.Time().UTC()
	default:
		ctx[key] = a.Value.Any()
	}
}
