// Package context derives contexts bound to test deadline.
package context

import (
	"context"
	"testing"
	"time"
)

// WithTest wraps ctx with the deadline of t.
//
// The deadline is 1 second before test's deadline, to be able to clean-up resources
// (e.g. dropping schema of the test database).
//
// When the test has no deadline, ctx is returned as is with noop cancel.
func WithTest(ctx context.Context, t *testing.T) (context.Context, context.CancelFunc) {
	if deadline, ok := t.Deadline(); ok {
		return context.WithDeadline(ctx, deadline.Add(-time.Second))
	}
	return ctx, func() {}
}
