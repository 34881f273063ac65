package logger

import (
	"io"
	"os"

	"github.com/philipp01105/agentlog/core"
	"github.com/philipp01105/agentlog/formatter"
)

// Options configures a Logger. The zero value is a configured, enabled
// logger at ErrorLevel with no stream attached.
type Options struct {
	// Level is the threshold, as a level name ("info") or a numeric rank.
	// Unrecognized values resolve to ErrorLevel.
	Level any
	// Enabled is the master switch (default: true).
	Enabled *bool
	// Configured set to false queues every call until Configure runs (default: true).
	Configured *bool
	// Name identifies the logger in every entry.
	Name string
	// Hostname overrides the machine host name.
	Hostname string
	// Stream, when set, receives all output as it is produced.
	Stream io.Writer
	// CoarseClock stamps entries from a cached clock instead of time.Now.
	CoarseClock bool
	// Formatter serializes entries (default: JSONFormatter).
	Formatter formatter.Formatter
}

// Bool returns a pointer to b, for the optional fields of Options.
func Bool(b bool) *bool {
	return &b
}

func (o Options) enabled() bool {
	return o.Enabled == nil || *o.Enabled
}

func (o Options) configured() bool {
	return o.Configured == nil || *o.Configured
}

func (o Options) hostname() string {
	if o.Hostname != "" {
		return o.Hostname
	}
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "localhost"
	}
	return h
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	opts Options
	ctx  core.Context
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLevel sets the threshold
func (b *Builder) WithLevel(level any) *Builder {
	b.opts.Level = level
	return b
}

// WithName sets the logger name
func (b *Builder) WithName(name string) *Builder {
	b.opts.Name = name
	return b
}

// WithHostname overrides the host name
func (b *Builder) WithHostname(hostname string) *Builder {
	b.opts.Hostname = hostname
	return b
}

// WithEnabled sets the master switch
func (b *Builder) WithEnabled(enabled bool) *Builder {
	b.opts.Enabled = Bool(enabled)
	return b
}

// Deferred makes the logger queue calls until Configure is called
func (b *Builder) Deferred() *Builder {
	b.opts.Configured = Bool(false)
	return b
}

// WithStream connects the output to w
func (b *Builder) WithStream(w io.Writer) *Builder {
	b.opts.Stream = w
	return b
}

// WithCoarseClock enables the cached clock for timestamps
func (b *Builder) WithCoarseClock(enabled bool) *Builder {
	b.opts.CoarseClock = enabled
	return b
}

// WithFormatter sets the entry formatter
func (b *Builder) WithFormatter(f formatter.Formatter) *Builder {
	b.opts.Formatter = f
	return b
}

// WithContext adds static context to all log entries
func (b *Builder) WithContext(ctx core.Context) *Builder {
	b.ctx = core.Merge(b.ctx, ctx)
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	return New(b.opts, b.ctx)
}
