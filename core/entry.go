package core

import (
	"sync"
	"time"
)

// EntryVersion is the value of the "v" field on every record.
const EntryVersion = 0

// Reserved keys are written by the logger and never overwritten by
// caller-supplied context.
var reservedKeys = map[string]struct{}{
	"v":        {},
	"level":    {},
	"name":     {},
	"hostname": {},
	"pid":      {},
	"time":     {},
	"msg":      {},
}

// IsReserved reports whether key is one of the built-in entry fields.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Entry represents a single log record before serialization.
type Entry struct {
	Level    Level
	Name     string
	Hostname string
	PID      int
	Time     time.Time
	Message  string
	Context  Context
}

// entryPool is a pool of Entry objects to reduce allocations
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{}
	},
}

// GetEntry retrieves an Entry from the pool
func GetEntry() *Entry {
	return entryPool.Get().(*Entry)
}

// PutEntry returns an Entry to the pool
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	*e = Entry{}
	entryPool.Put(e)
}

// Merge copies ctx onto the entry context. Reserved keys are skipped.
func (e *Entry) Merge(ctx Context) {
	if len(ctx) == 0 {
		return
	}
	if e.Context == nil {
		e.Context = make(Context, len(ctx))
	}
	for k, v := range ctx {
		if IsReserved(k) {
			continue
		}
		e.Context[k] = v
	}
}
