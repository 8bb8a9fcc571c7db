package db

import (
	"context"
	"time"
)

type Stats struct {
	TotalCorrections int
	TotalUsers       int

	// corrections created in the day
	CorrectionsToday int

	// users registered in the day
	UsersToday int
}

type AnalyticsInterface interface {
	// Stats counts records. "Today" is the half-open interval [dayStart, dayEnd).
	Stats(ctx context.Context, dayStart, dayEnd time.Time) (Stats, error)
}
