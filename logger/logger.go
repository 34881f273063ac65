package logger

import (
	"bytes"
	"os"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/agentlog/core"
	"github.com/philipp01105/agentlog/formatter"
	"github.com/philipp01105/agentlog/internal/warning"
	"github.com/philipp01105/agentlog/stream"
)

// MaxLogBuffer caps the number of bytes held for a consumer that is not
// reading. Lines that would exceed it are dropped.
const MaxLogBuffer = 128 * 1024 * 1024

// shared is the state every logger in one tree points at: options,
// pre-configuration queue, output buffer and consumer.
type shared struct {
	mu sync.Mutex

	level      core.Level
	enabled    bool
	configured bool
	replaying  bool
	name       string
	hostname   string
	pid        int

	root  *Logger
	queue []queuedCall

	buf      bytes.Buffer
	maxBuf   int
	reading  bool
	consumer stream.Consumer
	attached *stream.WriterConsumer

	overflow  warning.Once
	stats     *stream.Stats
	now       func() time.Time
	formatter formatter.Formatter
}

// queuedCall is a log call made before configuration.
type queuedCall struct {
	origin *Logger
	level  core.Level
	args   []any
}

// Logger is a leveled JSON-lines logger. Loggers derived with Child share
// configuration, queue and output with their root.
type Logger struct {
	s      *shared
	ctx    core.Context
	levels [core.NumLevels]*levelTable
}

// New creates a root Logger with static context ctx.
func New(opts Options, ctx core.Context) *Logger {
	s := &shared{
		level:      core.Coerce(opts.Level),
		enabled:    opts.enabled(),
		configured: opts.configured(),
		name:       opts.Name,
		hostname:   opts.hostname(),
		pid:        os.Getpid(),
		maxBuf:     MaxLogBuffer,
		stats:      stream.NewStats(),
		now:        core.Clock(opts.CoarseClock),
		formatter:  opts.Formatter,
	}
	if s.formatter == nil {
		s.formatter = formatter.NewJSONFormatter(formatter.Config{})
	}

	l := newLogger(s, core.Merge(ctx))
	s.root = l
	if opts.Stream != nil {
		s.attached = stream.NewWriterConsumer(opts.Stream)
		l.Pull(s.attached)
	}
	return l
}

func newLogger(s *shared, ctx core.Context) *Logger {
	l := &Logger{s: s, ctx: ctx}
	for i, level := range core.Levels() {
		l.levels[i] = newLevelTable(l, level)
	}
	return l
}

// Child returns a logger that adds ctx to every entry. Keys in ctx win
// over the parent's static context; per-call context wins over both.
func (l *Logger) Child(ctx core.Context) *Logger {
	return newLogger(l.s, core.Merge(l.ctx, ctx))
}

// Context returns a copy of the logger's static context.
func (l *Logger) Context() core.Context {
	return core.Merge(l.ctx)
}

// Configure applies opts and replays every call queued before
// configuration, in call order. Only Name, Enabled and Level are read;
// zero values leave the current setting unchanged.
func (l *Logger) Configure(opts Options) {
	s := l.s
	s.mu.Lock()
	if opts.Name != "" {
		s.name = opts.Name
	}
	if opts.Enabled != nil {
		s.enabled = *opts.Enabled
	}
	if opts.Level != nil {
		s.level = core.Coerce(opts.Level)
	}
	if s.replaying {
		s.mu.Unlock()
		return
	}
	s.configured = true
	s.replaying = true
	defer func() {
		s.replaying = false
		s.mu.Unlock()
	}()

	// Calls arriving during replay are queued behind the backlog, so the
	// loop runs until the queue stays empty.
	for len(s.queue) > 0 {
		queue := s.queue
		s.queue = nil
		s.mu.Unlock()
		for _, qc := range queue {
			qc.replay()
		}
		s.mu.Lock()
	}
}

// replay emits a queued call. A panic drops the call and leaves the
// rest of the queue to be replayed.
func (qc queuedCall) replay() {
	defer func() { _ = recover() }()
	qc.origin.emit(qc.level, qc.args)
}

// SetLevel changes the threshold of the whole logger tree.
func (l *Logger) SetLevel(level any) {
	l.s.mu.Lock()
	l.s.level = core.Coerce(level)
	l.s.mu.Unlock()
}

// Level returns the current threshold.
func (l *Logger) Level() core.Level {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.level
}

// SetEnabled turns the whole logger tree on or off.
func (l *Logger) SetEnabled(enabled bool) {
	l.s.mu.Lock()
	l.s.enabled = enabled
	l.s.mu.Unlock()
}

// Enabled reports whether level meets the threshold. The master switch
// is not consulted.
func (l *Logger) Enabled(level core.Level) bool {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return level >= l.s.level
}

// Log logs args at level. The first argument is per-call context when it
// is a core.Context, a map[string]any or an error; the rest form the
// message. Log reports whether the entry was delivered or buffered.
func (l *Logger) Log(level core.Level, args ...any) bool {
	return l.log(level, args)
}

func (l *Logger) log(level core.Level, args []any) bool {
	s := l.s
	s.mu.Lock()
	if !s.configured || s.replaying {
		s.queue = append(s.queue, queuedCall{origin: l, level: level, args: args})
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()
	return l.emit(level, args)
}

// emit applies the enable and threshold gates and writes one entry.
func (l *Logger) emit(level core.Level, args []any) bool {
	s := l.s
	s.mu.Lock()
	if !s.enabled || level < s.level {
		s.mu.Unlock()
		return false
	}
	name, hostname := s.name, s.hostname
	s.mu.Unlock()

	var extra core.Context
	if len(args) > 0 {
		if ctx, ok := core.ExtraFrom(args[0]); ok {
			extra = ctx
			args = args[1:]
		}
	}

	msgArgs := make([]any, len(args))
	unparsable := false
	for i, a := range args {
		a = formatter.Resolve(a)
		if formatter.IsObject(a) {
			if _, err := formatter.Stringify(a); err != nil {
				a = formatter.Unparsable
				unparsable = true
			}
		}
		msgArgs[i] = a
	}
	if unparsable {
		l.diag(nil, "Failed to stringify object for log")
	}

	return l.write(&guard{}, level, name, hostname, msgArgs, extra)
}

// guard marks a write in progress. Diagnostics raised under it are
// discarded instead of recursing into the write.
type guard struct {
	nested bool
}

func (l *Logger) write(g *guard, level core.Level, name, hostname string, args []any, extra core.Context) bool {
	g.nested = true
	defer func() { g.nested = false }()

	s := l.s
	entry := core.GetEntry()
	defer core.PutEntry(entry)

	entry.Level = level
	entry.Name = name
	entry.Hostname = hostname
	entry.PID = s.pid
	entry.Time = s.now()
	entry.Message = formatter.Sprint(args...)
	entry.Merge(l.ctx)
	entry.Merge(extra)

	buf := formatter.GetBuffer()
	defer formatter.PutBuffer(buf)

	if err := s.formatter.FormatEntry(entry, buf); err != nil {
		l.diag(g, "Unable to stringify log message: %s", err.Error())
		return false
	}
	return s.push(level, buf.Bytes())
}

// diag logs an internal diagnostic at debug level unless it was raised
// inside a write.
func (l *Logger) diag(g *guard, args ...any) {
	if g != nil && g.nested {
		return
	}
	l.log(core.DebugLevel, args)
}

// push hands line to a waiting consumer or buffers it.
func (s *shared) push(level core.Level, line []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reading && s.consumer != nil {
		s.reading = s.consumer.Deliver(line)
		s.stats.IncrementDelivered()
		return true
	}

	if s.buf.Len()+len(line) < s.maxBuf {
		s.buf.Write(line)
		s.stats.IncrementBuffered()
		return true
	}

	s.stats.IncrementDropped(level, len(line))
	s.overflow.Emit("AGENTLOG_BUFFER_OVERFLOW",
		"log buffer is full, dropping log entries until it is read",
		zap.Int("max_bytes", s.maxBuf))
	return false
}

// Pull implements stream.Source. Buffered output is delivered to c at
// once; otherwise c receives the next entry directly.
func (l *Logger) Pull(c stream.Consumer) {
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.consumer = c
	if s.buf.Len() == 0 {
		s.reading = true
		return
	}

	s.reading = c.Deliver(s.buf.Bytes())
	if s.buf.Cap() > 1<<20 {
		s.buf = bytes.Buffer{}
	} else {
		s.buf.Reset()
	}
}

// Cancel implements stream.Source.
func (l *Logger) Cancel(c stream.Consumer) {
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumer == c {
		s.consumer = nil
		s.reading = false
	}
}

// Buffered returns a copy of the output not yet read by any consumer.
func (l *Logger) Buffered() []byte {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return bytes.Clone(l.s.buf.Bytes())
}

// Stats returns output counters for the logger tree.
func (l *Logger) Stats() stream.Snapshot {
	s := l.s
	snap := s.stats.GetSnapshot()
	s.mu.Lock()
	snap.PendingBytes = s.buf.Len()
	snap.Queued = len(s.queue)
	s.mu.Unlock()
	return snap
}

// Close stops this logger's dedup timers. Closing a root logger built
// with Options.Stream also detaches and syncs that stream.
func (l *Logger) Close() error {
	for _, t := range l.levels {
		t.stop()
	}

	s := l.s
	if s.root != l {
		return nil
	}
	s.mu.Lock()
	attached := s.attached
	s.attached = nil
	s.mu.Unlock()
	if attached == nil {
		return nil
	}

	l.Cancel(attached)
	return multierr.Combine(attached.Err(), attached.Sync())
}
