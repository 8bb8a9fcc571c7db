package mocks

import (
	"context"
	"time"

	kdb "github.com/opst/grammarfab/pkg/db"
)

type MockAnalyticsInterface struct {
	Impl struct {
		Stats func(ctx context.Context, dayStart, dayEnd time.Time) (kdb.Stats, error)
	}
	Calls struct {
		Stats CallLog[struct {
			DayStart time.Time
			DayEnd   time.Time
		}]
	}
}

func NewMockAnalyticsInterface() *MockAnalyticsInterface {
	return &MockAnalyticsInterface{}
}

var _ kdb.AnalyticsInterface = &MockAnalyticsInterface{}

func (m *MockAnalyticsInterface) Stats(ctx context.Context, dayStart, dayEnd time.Time) (kdb.Stats, error) {
	m.Calls.Stats = append(m.Calls.Stats, struct {
		DayStart time.Time
		DayEnd   time.Time
	}{DayStart: dayStart, DayEnd: dayEnd})
	if m.Impl.Stats == nil {
		return kdb.Stats{}, ErrNotImplemented
	}
	return m.Impl.Stats(ctx, dayStart, dayEnd)
}
