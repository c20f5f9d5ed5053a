package langfuse

import "context"

type traceContextKey struct{}

type spanContextKey struct{}

// ContextWithTrace returns a copy of ctx carrying trace, so nested calls can
// add observations without the trace being threaded through parameters.
// The trace is only visible within the process.
//
// Example:
//
//	ctx = langfuse.ContextWithTrace(ctx, client.Trace(cfg))
//	handle(ctx) // retrieves it with TraceFromContext
func ContextWithTrace(ctx context.Context, trace *Trace) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// TraceFromContext returns the trace stored by ContextWithTrace.
func TraceFromContext(ctx context.Context) (*Trace, bool) {
	trace, ok := ctx.Value(traceContextKey{}).(*Trace)
	return trace, ok && trace != nil
}

// MustTraceFromContext is TraceFromContext that panics when ctx carries no
// trace.
func MustTraceFromContext(ctx context.Context) *Trace {
	trace, ok := TraceFromContext(ctx)
	if !ok {
		panic("langfuse: no trace in context")
	}
	return trace
}

// ContextWithSpan returns a copy of ctx carrying span.
func ContextWithSpan(ctx context.Context, span *Span) context.Context {
	return context.WithValue(ctx, spanContextKey{}, span)
}

// SpanFromContext returns the span stored by ContextWithSpan.
func SpanFromContext(ctx context.Context) (*Span, bool) {
	span, ok := ctx.Value(spanContextKey{}).(*Span)
	return span, ok && span != nil
}
