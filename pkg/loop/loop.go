// Package loop runs recurring tasks until their context is done.
package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells Start what to do after a task.
//
// The zero value is Continue(0).
type Next struct {
	stop     bool
	err      error
	interval time.Duration
}

func (n Next) String() string {
	switch {
	case n.err != nil:
		return fmt.Sprintf("[break] with error: %v", n.err)
	case n.stop:
		return "[break] without error"
	default:
		return fmt.Sprintf("[continue] interval: %s", n.interval)
	}
}

// Continue runs the task again after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break stops the loop. Start returns err.
func Break(err error) Next {
	return Next{stop: true, err: err}
}

// Task is a step of loop.
//
// It receives the value returned from the last step (or the initial value),
// and returns a new one with what to do next.
type Task[T any] func(context.Context, T) (T, Next)

type config struct {
	timeout time.Duration
}

type Option func(*config) *config

// WithTimeout sets deadline on context passed to each task.
func WithTimeout(d time.Duration) Option {
	return func(c *config) *config {
		c.timeout = d
		return c
	}
}

// Start calls task repeatedly until it breaks or ctx is done.
//
// # Example
//
// Sweep expired token revocations every hour, counting swept rows:
//
//	Start(ctx, 0, func(ctx context.Context, total int) (int, Next) {
//		n, err := revocations.Sweep(ctx, time.Now())
//		if err != nil {
//			return total, Break(err)
//		}
//		return total + n, Continue(time.Hour)
//	})
//
// # Args
//
// - ctx: when it is done, the loop stops at the next interval.
//
// - init: the value passed to the first call of task.
//
// - task: Task
//
// - options: Option
//
// # Returns
//
// - T: the value task returned at last, or init when task has not been called.
//
// - error: error of Break, or ctx.Err(). nil when task breaks with Break(nil).
func Start[T any](ctx context.Context, init T, task Task[T], options ...Option) (T, error) {
	conf := &config{}
	for _, opt := range options {
		conf = opt(conf)
	}

	value := init
	for {
		if err := ctx.Err(); err != nil {
			return value, err
		}

		v, next := run(ctx, conf, task, value)
		value = v
		if next.stop {
			return value, next.err
		}

		timer := time.NewTimer(next.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

func run[T any](ctx context.Context, conf *config, task Task[T], value T) (T, Next) {
	if 0 < conf.timeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.timeout)
		defer cancel()
	}
	return task(ctx, value)
}
