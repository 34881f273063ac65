package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/philipp01105/agentlog/core"
)

// TextFormatter renders serialized JSON records as human-readable lines:
//
//	2026-02-18T13:00:00.000Z [INFO] agent: message key=value
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	return &TextFormatter{Config: cfg}
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [core.NumLevels]string{
	" [TRACE] ",
	" [DEBUG] ",
	" [INFO] ",
	" [WARN] ",
	" [ERROR] ",
	" [FATAL] ",
}

// FormatLine decodes one JSON record and writes its text form to buf.
func (f *TextFormatter) FormatLine(line []byte, buf *bytes.Buffer) error {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	if ts, ok := rec["time"].(string); ok {
		buf.WriteString(ts)
	}

	level := core.Coerce(rec["level"])
	if i := level.Index(); i >= 0 {
		buf.WriteString(levelBrackets[i])
	} else {
		fmt.Fprintf(buf, " [%d] ", int(level))
	}

	if name, ok := rec["name"].(string); ok && name != "" {
		buf.WriteString(name)
		buf.WriteString(": ")
	}
	if msg, ok := rec["msg"].(string); ok {
		buf.WriteString(msg)
	}

	keys := make([]string, 0, len(rec))
	for k := range rec {
		if core.IsReserved(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		buf.WriteByte(' ')
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(ToString(rec[k]))
	}

	buf.WriteByte('\n')
	return nil
}
