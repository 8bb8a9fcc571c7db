// Package revocation keeps the token revocation list small.
package revocation

import (
	"context"
	"time"

	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/loop"
)

// Report is called after each sweep.
type Report func(swept int, err error)

type Sweeper struct {
	revocations kdb.RevocationInterface
	interval    time.Duration
	timeout     time.Duration
	now         func() time.Time
	report      Report
}

type Option func(*Sweeper) *Sweeper

// WithClock replaces the clock deciding which revocations are expired.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) *Sweeper {
		s.now = now
		return s
	}
}

// WithReport sets a callback receiving result of each sweep.
func WithReport(report Report) Option {
	return func(s *Sweeper) *Sweeper {
		s.report = report
		return s
	}
}

// WithTimeout limits time for each sweep. default = 1 minute.
func WithTimeout(d time.Duration) Option {
	return func(s *Sweeper) *Sweeper {
		s.timeout = d
		return s
	}
}

// NewSweeper creates a Sweeper removing expired revocations every interval.
func NewSweeper(revocations kdb.RevocationInterface, interval time.Duration, options ...Option) *Sweeper {
	s := &Sweeper{
		revocations: revocations,
		interval:    interval,
		timeout:     time.Minute,
		now:         time.Now,
		report:      func(int, error) {},
	}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// Run sweeps until ctx is done, and returns the number of swept revocations.
//
// Failures of each sweep are reported, and do not stop the loop.
// Returned error is always ctx.Err().
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	return loop.Start(
		ctx, 0,
		func(ctx context.Context, total int) (int, loop.Next) {
			n, err := s.revocations.Sweep(ctx, s.now())
			s.report(n, err)
			return total + n, loop.Continue(s.interval)
		},
		loop.WithTimeout(s.timeout),
	)
}
