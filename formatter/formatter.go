package formatter

import (
	"bytes"
	"sync"

	"github.com/philipp01105/agentlog/core"
)

// Formatter serializes a log entry into a caller-provided buffer.
type Formatter interface {
	// FormatEntry appends the serialized entry, newline-terminated, to buf.
	// On error nothing usable has been written and buf should be discarded.
	FormatEntry(entry *core.Entry, buf *bytes.Buffer) error
}

// LineFormatter re-renders an already serialized record.
type LineFormatter interface {
	FormatLine(line []byte, buf *bytes.Buffer) error
}

// Config holds common formatter configuration
type Config struct {
	// TimestampFormat specifies the time format (empty for ISO-8601 with milliseconds)
	TimestampFormat string
}

// ISO8601 is the default timestamp layout: UTC with millisecond precision.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

// GetBuffer returns an empty pooled buffer.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
