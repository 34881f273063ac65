package stream

import (
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// MultiWriter sends every write to multiple writers
type MultiWriter struct {
	writers []zapcore.WriteSyncer
	closers []io.Closer
}

// Tee creates a writer that duplicates each write to all given writers.
// Writers that implement io.Closer are closed by Close.
func Tee(writers ...io.Writer) *MultiWriter {
	m := &MultiWriter{writers: make([]zapcore.WriteSyncer, len(writers))}
	for i, w := range writers {
		if ws, ok := w.(zapcore.WriteSyncer); ok {
			m.writers[i] = ws
		} else {
			m.writers[i] = zapcore.AddSync(w)
		}
		if c, ok := w.(io.Closer); ok {
			m.closers = append(m.closers, c)
		}
	}
	return m
}

// Write writes p to every writer, even when an earlier one fails. The
// returned errors are combined.
func (m *MultiWriter) Write(p []byte) (int, error) {
	var err error
	for _, w := range m.writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sync flushes all writers
func (m *MultiWriter) Sync() error {
	var err error
	for _, w := range m.writers {
		err = multierr.Append(err, w.Sync())
	}
	return err
}

// Close closes all writers that can be closed
func (m *MultiWriter) Close() error {
	var err error
	for _, c := range m.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
