package stream

import (
	"bytes"
	"context"
	"io"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// DefaultHighWater is the backlog size at which a Reader stops asking
// for more data until it has been read.
const DefaultHighWater = 16 * 1024

// Reader adapts a Source to io.ReadCloser. Read blocks until the source
// has produced data or the reader is closed.
type Reader struct {
	src       Source
	highWater int

	mu      sync.Mutex
	cond    *sync.Cond
	backlog bytes.Buffer
	closed  bool
}

// NewReader creates a Reader over src. A non-positive highWater selects
// DefaultHighWater.
func NewReader(src Source, highWater int) *Reader {
	if highWater <= 0 {
		highWater = DefaultHighWater
	}
	r := &Reader{src: src, highWater: highWater}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Deliver implements Consumer.
func (r *Reader) Deliver(p []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	r.backlog.Write(p)
	r.cond.Broadcast()
	return r.backlog.Len() < r.highWater
}

// Read implements io.Reader. Data delivered before Close is still
// returned; io.EOF follows once the backlog is empty.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	if r.backlog.Len() == 0 && !r.closed {
		// Pull may deliver synchronously, which takes r.mu.
		r.mu.Unlock()
		r.src.Pull(r)
		r.mu.Lock()
		if r.closed {
			// Close raced with Pull; withdraw the read Pull registered.
			r.mu.Unlock()
			r.src.Cancel(r)
			r.mu.Lock()
		}
	}
	for r.backlog.Len() == 0 && !r.closed {
		r.cond.Wait()
	}
	defer r.mu.Unlock()

	if r.backlog.Len() == 0 {
		return 0, io.EOF
	}
	return r.backlog.Read(p)
}

// Close stops the reader and withdraws any pending read from the source.
// Blocked Read calls return.
func (r *Reader) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.cond.Broadcast()
	r.mu.Unlock()

	r.src.Cancel(r)
	return nil
}

// WriterConsumer pushes every delivered chunk straight into a writer.
type WriterConsumer struct {
	ws zapcore.WriteSyncer

	mu  sync.Mutex
	err error
}

// NewWriterConsumer wraps w. Writers that are already a
// zapcore.WriteSyncer keep their Sync method.
func NewWriterConsumer(w io.Writer) *WriterConsumer {
	ws, ok := w.(zapcore.WriteSyncer)
	if !ok {
		ws = zapcore.AddSync(w)
	}
	return &WriterConsumer{ws: ws}
}

// Deliver implements Consumer. A write error stops delivery; the source
// buffers again until the consumer is pulled anew.
func (c *WriterConsumer) Deliver(p []byte) bool {
	_, err := c.ws.Write(p)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = multierr.Append(c.err, err)
	return err == nil
}

// Err returns the accumulated write errors.
func (c *WriterConsumer) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Sync flushes the underlying writer.
func (c *WriterConsumer) Sync() error {
	return c.ws.Sync()
}

// Drain hands whatever src has buffered to w without leaving a pending
// read behind.
func Drain(src Source, w io.Writer) error {
	c := &oneShot{w: w}
	src.Pull(c)
	src.Cancel(c)
	return c.err
}

type oneShot struct {
	w   io.Writer
	err error
}

func (o *oneShot) Deliver(p []byte) bool {
	_, o.err = o.w.Write(p)
	return false
}

// Pump copies src into ws until ctx is done, then drains what is left.
// It returns ctx.Err() on cancellation, or the first write error.
func Pump(ctx context.Context, src Source, ws zapcore.WriteSyncer) error {
	r := NewReader(src, DefaultHighWater)
	stop := context.AfterFunc(ctx, func() { _ = r.Close() })
	defer stop()

	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := ws.Write(buf[:n]); werr != nil {
				_ = r.Close()
				return werr
			}
		}
		if err == io.EOF {
			break
		}
	}

	return multierr.Combine(ctx.Err(), Drain(src, ws), ws.Sync())
}
