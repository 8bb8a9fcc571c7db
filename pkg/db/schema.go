package db

import "context"

type SchemaInterface interface {
	// Version returns the current schema version. 0 means no schema.
	Version(ctx context.Context) (int, error)

	// Upgrade applies schema versions newer than the current one.
	Upgrade(ctx context.Context) error

	// Context returns a context which is canceled when the schema in the
	// database gets older than the schema repository.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
