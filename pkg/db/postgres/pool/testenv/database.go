package testenv

import (
	"context"
	"testing"

	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	kpgschema "github.com/opst/grammarfab/pkg/db/postgres/schema"
)

// NewDatabaseBroaker is NewPoolBroaker whose namespace has tables of this module.
func NewDatabaseBroaker(ctx context.Context, t *testing.T, namespace string) PoolBroaker {
	t.Helper()
	return NewPoolBroaker(
		ctx, t, namespace,
		WithSetup(func(ctx context.Context, pool kpool.Pool) error {
			return kpgschema.New(pool, SchemaRepository()).Upgrade(ctx)
		}),
	)
}
