package rfctime

import (
	"fmt"
	"time"
)

// Format string for full-date in RFC3339 (YYYY-MM-DD).
const RFC3339FullDateFormat string = time.DateOnly

// Date is a calendar day, starting at 00:00 UTC.
type Date time.Time

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(RFC3339FullDateFormat, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("date should be formatted as YYYY-MM-DD: %w", err)
	}
	return Date(t), nil
}

// Today returns the day including now, in UTC.
func Today(now time.Time) Date {
	y, m, d := now.UTC().Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Start returns the first instant of the day.
func (d Date) Start() time.Time {
	return time.Time(d)
}

// End returns the first instant of the next day.
func (d Date) End() time.Time {
	return time.Time(d).AddDate(0, 0, 1)
}

func (d Date) String() string {
	return time.Time(d).Format(RFC3339FullDateFormat)
}

// DayRange returns a half-open interval [since, until) covering days from `start` to `end`, both inclusive.
//
// It fails when end is before start.
func DayRange(start, end Date) (since time.Time, until time.Time, err error) {
	if end.Start().Before(start.Start()) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date (%s) is before start date (%s)", end, start)
	}
	return start.Start(), end.End(), nil
}
