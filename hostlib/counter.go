package hostlib

import (
	"context"

	"github.com/reusee/hostobj/objects"
)

var DefaultStep = 1

// Counter is designed for guest subclassing: a guest step method replaces Step.
type Counter struct {
	objects.Guest
	Count int
}

func NewCounter() *Counter {
	return new(Counter)
}

func NewCounterFrom(start int) *Counter {
	return &Counter{
		Count: start,
	}
}

func (c *Counter) Step() int {
	return DefaultStep
}

func (c *Counter) Incr(ctx context.Context) (int, error) {
	step := c.Step()
	ret, ok, err := c.Override(ctx, "step")
	if err != nil {
		return 0, err
	}
	if ok {
		n, err := objects.As[int](ctx, ret)
		if err != nil {
			return 0, err
		}
		step = n
	}
	c.Count += step
	return c.Count, nil
}
