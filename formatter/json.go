package formatter

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/philipp01105/agentlog/core"
)

// JSONFormatter formats log entries as one JSON object per line with the
// fields v, level, name, hostname, pid, time and msg first, followed by
// the entry context in key order.
type JSONFormatter struct {
	Config
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = ISO8601
	}
	return &JSONFormatter{Config: cfg}
}

// FormatEntry formats an entry as JSON into the given buffer. Context
// values that cannot be encoded are replaced by the Unparsable
// placeholder; only a panic while formatting fails the entry.
func (f *JSONFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("format entry: panic: %v", r)
		}
	}()

	buf.WriteString(`{"v":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), core.EntryVersion, 10))

	buf.WriteString(`,"level":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Level), 10))

	buf.WriteString(`,"name":"`)
	appendJSONString(buf, entry.Name)

	buf.WriteString(`","hostname":"`)
	appendJSONString(buf, entry.Hostname)

	buf.WriteString(`","pid":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.PID), 10))

	buf.WriteString(`,"time":"`)
	buf.Write(entry.Time.UTC().AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	buf.WriteString(`","msg":"`)
	appendJSONString(buf, entry.Message)
	buf.WriteByte('"')

	if len(entry.Context) > 0 {
		keys := make([]string, 0, len(entry.Context))
		for k := range entry.Context {
			if core.IsReserved(k) {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			buf.WriteString(`,"`)
			appendJSONString(buf, k)
			buf.WriteString(`":`)
			appendJSONValue(buf, entry.Context[k])
		}
	}

	buf.WriteString("}\n")
	return nil
}

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer.
// Invalid UTF-8 is replaced with \ufffd so every line stays valid JSON.
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf.WriteString(s[start:i])
				buf.WriteString(`\ufffd`)
				i++
				start = i
				continue
			}
			i += size
			continue
		}
		if c >= 0x20 && c != '"' && c != '\\' {
			i++
			continue
		}
		// Flush unescaped prefix
		buf.WriteString(s[start:i])
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		i++
		start = i
	}
	// Flush remaining
	buf.WriteString(s[start:])
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// appendJSONValue writes a JSON-encoded context value to the buffer. A
// value that cannot be encoded is written as the Unparsable placeholder.
func appendJSONValue(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		buf.WriteByte('"')
		appendJSONString(buf, t)
		buf.WriteByte('"')
	case bool:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), t))
	case int:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(t), 10))
	case int64:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), t, 10))
	case time.Time:
		buf.WriteByte('"')
		buf.Write(t.UTC().AppendFormat(buf.AvailableBuffer(), ISO8601))
		buf.WriteByte('"')
	case time.Duration:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), t.Milliseconds(), 10))
	default:
		s, err := Stringify(v)
		if err != nil {
			buf.WriteByte('"')
			appendJSONString(buf, Unparsable)
			buf.WriteByte('"')
			return
		}
		buf.WriteString(s)
	}
}
