package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	kdb "github.com/opst/grammarfab/pkg/db"
	kpganalytics "github.com/opst/grammarfab/pkg/db/postgres/analytics"
	kpgcorrection "github.com/opst/grammarfab/pkg/db/postgres/correction"
	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	kpgrevocation "github.com/opst/grammarfab/pkg/db/postgres/revocation"
	kpgschema "github.com/opst/grammarfab/pkg/db/postgres/schema"
	kpguser "github.com/opst/grammarfab/pkg/db/postgres/user"
	xe "github.com/opst/grammarfab/pkg/errors"
)

type databasePostgres struct {
	pool        kpool.Pool
	users       kdb.UserInterface
	corrections kdb.CorrectionInterface
	revocations kdb.RevocationInterface
	analytics   kdb.AnalyticsInterface
	schema      kdb.SchemaInterface
}

type Config struct {
	SchemaRepository string

	// Revocations replaces the revocation store. nil means postgres.
	Revocations kdb.RevocationInterface
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

// WithRevocations stores revocations in another store (for example, redis).
func WithRevocations(revocations kdb.RevocationInterface) Option {
	return func(c *Config) *Config {
		c.Revocations = revocations
		return c
	}
}

// New connects to postgres.
func New(
	ctx context.Context,
	url string,
	options ...Option,
) (kdb.Database, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return Wrap(kpool.Wrap(pool), options...), nil
}

// Wrap builds Database on a pool.
func Wrap(p kpool.Pool, options ...Option) kdb.Database {
	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	schema := kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	revocations := c.Revocations
	if revocations == nil {
		revocations = kpgrevocation.New(p)
	}

	return &databasePostgres{
		pool:        p,
		users:       kpguser.New(p),
		corrections: kpgcorrection.New(p),
		revocations: revocations,
		analytics:   kpganalytics.New(p),
		schema:      schema,
	}
}

func (d *databasePostgres) Users() kdb.UserInterface {
	return d.users
}

func (d *databasePostgres) Corrections() kdb.CorrectionInterface {
	return d.corrections
}

func (d *databasePostgres) Revocations() kdb.RevocationInterface {
	return d.revocations
}

func (d *databasePostgres) Analytics() kdb.AnalyticsInterface {
	return d.analytics
}

func (d *databasePostgres) Schema() kdb.SchemaInterface {
	return d.schema
}

func (d *databasePostgres) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

func (d *databasePostgres) Close() error {
	d.pool.Close()
	return nil
}
