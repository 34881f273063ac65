package main

import (
	"bytes"
	"io"

	"github.com/philipp01105/agentlog/formatter"
)

// prettyWriter re-renders complete JSON lines as text. Partial lines
// are held until their newline arrives. Like syncless it has no Sync.
type prettyWriter struct {
	out     io.Writer
	f       *formatter.TextFormatter
	pending bytes.Buffer
}

func newPrettyWriter(out io.Writer) *prettyWriter {
	return &prettyWriter{out: out, f: formatter.NewTextFormatter(formatter.Config{})}
}

func (p *prettyWriter) Write(b []byte) (int, error) {
	p.pending.Write(b)
	for {
		data := p.pending.Bytes()
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return len(b), nil
		}

		buf := formatter.GetBuffer()
		if err := p.f.FormatLine(data[:i], buf); err != nil {
			// Not a record; pass it through unchanged.
			buf.Reset()
			buf.Write(data[:i+1])
		}
		_, err := p.out.Write(buf.Bytes())
		formatter.PutBuffer(buf)
		p.pending.Next(i + 1)
		if err != nil {
			return 0, err
		}
	}
}

