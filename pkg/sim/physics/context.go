package physics

import (
	"context"
	"time"
)

// TimeContext is a Context with a fixed time.
type TimeContext struct {
	now time.Time
	ctx context.Context
}

// Now creates a Context at the current time.
func Now(ctx context.Context) Context {
	return At(ctx, time.Now())
}

// At creates a Context at t.
func At(ctx context.Context, t time.Time) Context {
	return &TimeContext{now: t, ctx: ctx}
}

// Time implements TimeSource.
func (c *TimeContext) Time() time.Time {
	return c.now
}

// Context implements Context.
func (c *TimeContext) Context() context.Context {
	return c.ctx
}
