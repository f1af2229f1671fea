package logs

import (
	"context"
	"crypto/rand"

	"github.com/reusee/hostobj/vars"
)

// NewSpan starts a span under parent, or under the span of ctx when parent is empty.
type NewSpan func(ctx context.Context, parent Span) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, parent Span) (context.Context, Span) {
		creator, _ := SpanOf(ctx)
		parent = vars.FirstNonZero(parent, creator)

		span := Span(rand.Text())
		ctx = WithSpan(ctx, span)

		var args []any
		if creator != "" && creator != parent {
			args = append(args, "creator", creator)
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		logger.DebugContext(ctx, "span started", args...)

		return ctx, span
	}
}
