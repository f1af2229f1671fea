package logs

import "context"

// Span identifies one unit of work, usually a script run or a host call chain.
type Span string

type spanKey struct{}

func SpanOf(ctx context.Context) (Span, bool) {
	span, ok := ctx.Value(spanKey{}).(Span)
	return span, ok
}

func WithSpan(ctx context.Context, span Span) context.Context {
	return context.WithValue(ctx, spanKey{}, span)
}
