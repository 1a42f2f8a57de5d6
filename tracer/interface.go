package tracer

import (
	"context"
)

// Tracer starts spans.
type Tracer interface {
	// StartSpan starts a span as a child of any span in ctx and returns a
	// context carrying the new span. The caller must End the span.
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span is one unit of traced work.
type Span interface {
	// End completes the span.
	End()

	// SetAttributes records key/value attributes. Unsupported value types
	// are stored with fmt.Sprint.
	SetAttributes(attrs map[string]interface{})

	// RecordError records err and marks the span as failed.
	RecordError(err error)
}
