// Package tracectx turns the OpenTelemetry span carried by a
// context.Context into log context, so log lines can be joined with the
// trace they were written in.
package tracectx

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/philipp01105/agentlog/core"
	"github.com/philipp01105/agentlog/logger"
)

// Keys written by Extra.
const (
	TraceIDKey = "trace.id"
	SpanIDKey  = "span.id"
)

// Extra returns the trace and span id of the span in ctx, or nil when
// ctx carries no valid span context. The result can be passed as the
// first argument of any log call.
func Extra(ctx context.Context) core.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return core.Context{
		TraceIDKey: sc.TraceID().String(),
		SpanIDKey:  sc.SpanID().String(),
	}
}

// Logger returns a child of l tagged with the span in ctx, or l itself
// when there is none.
func Logger(ctx context.Context, l *logger.Logger) *logger.Logger {
	extra := Extra(ctx)
	if extra == nil {
		return l
	}
	return l.Child(extra)
}
