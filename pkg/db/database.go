package db

import (
	"context"
	"errors"
)

// Database is a set of stores grammard uses.
type Database interface {
	Users() UserInterface
	Corrections() CorrectionInterface
	Revocations() RevocationInterface
	Analytics() AnalyticsInterface
	Schema() SchemaInterface

	// Ping checks the database is reachable.
	Ping(context.Context) error
	Close() error
}

var (
	// requested record is not found.
	ErrMissing = errors.New("missing")

	// record conflicts with another one (for example, duplicated email).
	ErrConflict = errors.New("conflict")
)
