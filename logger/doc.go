// Package logger is the public API of agentlog. Most users only need to
// import this package.
//
// A Logger writes one JSON object per line:
//
//	{"v":0,"level":30,"name":"agent","hostname":"web-1","pid":42,"time":"2026-02-18T13:00:00.000Z","msg":"hello world"}
//
// Each severity has four methods: Info logs, InfoOnce logs the first call
// per key, InfoOncePer logs at most once per interval per key, and
// InfoEnabled checks the threshold. Arguments follow printf conventions
// (%s %d %i %f %j %o %O %v), and a leading core.Context, map or error is
// merged into the entry:
//
//	log.Info(core.Context{"route": "/users"}, "handled in %dms", 12)
//
// A logger built with Options.Configured set to false queues every call.
// Configure applies the final options and replays the queue in order, so
// calls made during start-up are filtered by the configured threshold.
//
// Output is pulled, not pushed. A consumer registers through Pull and
// receives buffered output at once, then each new line while it keeps
// returning true from Deliver. Output produced while nobody reads is
// kept up to MaxLogBuffer bytes; past that, lines are dropped and a
// single process warning is written to stderr. Options.Stream connects a
// writer that is always reading; stream.NewReader turns the logger into
// an io.Reader.
//
// Child loggers share configuration, queue and output with their root
// and carry additional context:
//
//	reqLog := log.Child(core.Context{"request_id": id})
//
// The package initializes a default Logger (InfoLevel, JSON to stdout)
// in init(). The package-level functions Info, Error, etc. delegate to
// it.
package logger
