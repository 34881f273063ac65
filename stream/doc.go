// Package stream connects the logger's buffered output to whatever
// consumes it.
//
// Output is pull-based. A Consumer asks its Source for data with Pull;
// if the source holds buffered text it is handed over at once, otherwise
// the consumer is remembered as a pending reader and receives the next
// line directly. Deliver returns false when the consumer wants no more
// for now, and the source goes back to buffering.
//
// Adapters:
//
//   - Reader exposes a Source as a blocking io.ReadCloser with a
//     high-water mark.
//   - WriterConsumer pushes everything into an io.Writer.
//   - Pump copies a Source into a zapcore.WriteSyncer until its context
//     is cancelled.
//   - Tee fans a write out to several writers.
//
// Stats counts delivered, buffered and dropped lines. Drops are tracked
// per level.
package stream
