package db

import (
	"context"
	"time"
)

type Correction struct {
	Id            int64
	UserId        *int64
	OriginalText  string
	CorrectedText string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OwnedBy reports the correction is made by the user.
func (c *Correction) OwnedBy(userId int64) bool {
	return c.UserId != nil && *c.UserId == userId
}

type NewCorrection struct {
	UserId        *int64
	OriginalText  string
	CorrectedText string
}

// CorrectionQuery selects corrections.
//
// Zero values mean "no condition".
type CorrectionQuery struct {
	// owner of corrections.
	UserId *int64

	// substring to be found in original text or corrected text. case sensitive.
	Text string

	// corrections created at or after Since.
	Since *time.Time

	// corrections created before Until.
	Until *time.Time
}

type CorrectionInterface interface {
	// Create records a correction.
	Create(ctx context.Context, correction NewCorrection) (Correction, error)

	// CreateMany records corrections at once, in the given order.
	//
	// It records all or nothing.
	CreateMany(ctx context.Context, corrections []NewCorrection) ([]Correction, error)

	// Get returns a correction. ErrMissing when not found.
	Get(ctx context.Context, id int64) (Correction, error)

	// Find returns corrections matching query in the page, newest first.
	Find(ctx context.Context, query CorrectionQuery, page Page) ([]Correction, error)

	// Count returns the number of corrections matching query.
	Count(ctx context.Context, query CorrectionQuery) (int, error)

	// Delete removes a correction. ErrMissing when not found.
	Delete(ctx context.Context, id int64) error
}
