package logger

import (
	"sync"
	"time"

	"github.com/philipp01105/agentlog/core"
)

// Positions of each severity in core.Levels.
const (
	traceIndex = iota
	debugIndex
	infoIndex
	warnIndex
	errorIndex
	fatalIndex
)

// levelTable holds the call variants of one severity and their dedup
// state. Every Logger builds one table per level in core.Levels order.
type levelTable struct {
	l     *Logger
	level core.Level

	mu   sync.Mutex
	once map[string]struct{}
	per  map[string]*time.Timer
}

func newLevelTable(l *Logger, level core.Level) *levelTable {
	return &levelTable{
		l:     l,
		level: level,
		once:  make(map[string]struct{}),
		per:   make(map[string]*time.Timer),
	}
}

// table returns the dedup table for level. Ranks between names share
// the table of the named level below them.
func (l *Logger) table(level core.Level) *levelTable {
	return l.levels[int(core.Coerce(level)/10)-1]
}

// Once logs args at level the first time key is seen by this logger.
func (l *Logger) Once(level core.Level, key string, args ...any) bool {
	return l.table(level).logOnce(core.Coerce(level), key, args)
}

// OncePer logs args at level at most once per interval for key.
func (l *Logger) OncePer(level core.Level, key string, interval time.Duration, args ...any) bool {
	return l.table(level).logOncePer(core.Coerce(level), key, interval, args)
}

func (t *levelTable) log(args []any) bool {
	return t.l.log(t.level, args)
}

func (t *levelTable) enabled() bool {
	return t.l.Enabled(t.level)
}

// logOnce emits at most once per key for the lifetime of the logger. A
// key is only kept when the write was accepted, so a dropped entry is
// retried by the next call with the same key.
func (t *levelTable) logOnce(level core.Level, key string, args []any) bool {
	if key == "" {
		t.l.diag(nil, onceMethod(level)+"Once requires a non-empty key")
		return false
	}

	t.mu.Lock()
	if _, seen := t.once[key]; seen {
		t.mu.Unlock()
		return false
	}
	t.once[key] = struct{}{}
	t.mu.Unlock()

	if t.l.log(level, args) {
		return true
	}

	t.mu.Lock()
	delete(t.once, key)
	t.mu.Unlock()
	return false
}

// logOncePer emits at most once per key within interval. The marker is
// cleared by a timer, which does not keep the process alive.
func (t *levelTable) logOncePer(level core.Level, key string, interval time.Duration, args []any) bool {
	if key == "" {
		t.l.diag(nil, onceMethod(level)+"OncePer requires a non-empty key")
		return false
	}

	t.mu.Lock()
	if _, seen := t.per[key]; seen {
		t.mu.Unlock()
		return false
	}
	// Reserve the key while writing; the timer is installed on success.
	t.per[key] = nil
	t.mu.Unlock()

	ok := t.l.log(level, args)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !ok {
		delete(t.per, key)
		return false
	}
	var timer *time.Timer
	timer = time.AfterFunc(interval, func() {
		t.mu.Lock()
		if t.per[key] == timer {
			delete(t.per, key)
		}
		t.mu.Unlock()
	})
	t.per[key] = timer
	return true
}

// stop cancels pending expiry timers and forgets their keys.
func (t *levelTable) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, timer := range t.per {
		if timer != nil {
			timer.Stop()
		}
		delete(t.per, key)
	}
}

// onceMethod names the level method a dedup call came through.
func onceMethod(level core.Level) string {
	if level.Index() < 0 {
		return "log"
	}
	return level.String()
}
