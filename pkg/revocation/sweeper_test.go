package revocation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/opst/grammarfab/pkg/db/mocks"
	"github.com/opst/grammarfab/pkg/revocation"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSweeper(t *testing.T) {
	t.Run("it sweeps repeatedly and reports each result until context is done", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		var mu sync.Mutex
		swept := 0
		store := mocks.NewMockRevocationInterface()
		store.Impl.Sweep = func(ctx context.Context, at time.Time) (int, error) {
			mu.Lock()
			defer mu.Unlock()
			if !at.Equal(now) {
				t.Errorf("swept at %s", at)
			}
			if _, ok := ctx.Deadline(); !ok {
				t.Error("sweep has no deadline")
			}
			swept += 1
			if swept == 2 {
				return 0, errors.New("fake error")
			}
			return 3, nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reports := []error{}
		testee := revocation.NewSweeper(
			store, time.Millisecond,
			revocation.WithClock(func() time.Time { return now }),
			revocation.WithReport(func(n int, err error) {
				reports = append(reports, err)
				if 3 <= len(reports) {
					cancel()
				}
			}),
		)

		total, err := testee.Run(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
		if total != 6 {
			t.Errorf("total = %d, want 6", total)
		}
		if len(reports) != 3 || reports[0] != nil || reports[1] == nil || reports[2] != nil {
			t.Errorf("unexpected reports: %v", reports)
		}
	})

	t.Run("it does nothing when context is done already", func(t *testing.T) {
		store := mocks.NewMockRevocationInterface()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := revocation.NewSweeper(store, time.Hour).Run(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
		if n := store.Calls.Sweep.Times(); n != 0 {
			t.Errorf("swept %d times", n)
		}
	})
}
