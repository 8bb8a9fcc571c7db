package db

import (
	"context"
	"time"
)

// RevocationInterface remembers revoked access tokens until they expire.
type RevocationInterface interface {
	// Revoke marks the token `jti` as revoked.
	//
	// # Args
	//
	// - ctx
	//
	// - jti: token id
	//
	// - userId: owner of the token
	//
	// - expiresAt: expiry of the token. After that, the revocation can be forgotten.
	//
	// Revoking a revoked token again is not an error.
	Revoke(ctx context.Context, jti string, userId int64, expiresAt time.Time) error

	// IsRevoked reports that the token `jti` is revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Sweep removes revocations expired at `now`, and returns how many are removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}
