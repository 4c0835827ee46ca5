package ports

import (
	"context"
	"io"
)

// Tracer is the entry point for recording build progress.
type Tracer interface {
	// Start begins a span for a unit of work.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span represents one unit of work, typically one group build.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// Cached marks the span as a cache hit.
	Cached()
}
