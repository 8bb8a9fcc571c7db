// Package testenv provides postgres pools for tests.
//
// Tests using this package are skipped unless $GRAMMARFAB_TEST_DB is set
// to a connection string of a database which can be used freely.
//
// Each PoolBroaker works in its own postgres schema (namespace),
// so test packages running in parallel do not interfere each other.
package testenv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
)

const EnvTestDB = "GRAMMARFAB_TEST_DB"

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Unless WithDoNotCleanup is passed, tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type pg struct {
	pool *pgxpool.Pool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Cleanup(func() {
		t.Helper()
		ClearTables(context.Background(), kpool.Wrap(p.pool), t)
	})

	ClearTables(ctx, kpool.Wrap(p.pool), t)
	return kpool.Wrap(p.pool)
}

type pgNoClean struct {
	pool *pgxpool.Pool
}

func (p *pgNoClean) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	return kpool.Wrap(p.pool)
}

type pgConnOptions struct {
	DoNotCleanup bool
	Setup        func(context.Context, kpool.Pool) error
}

type PgConnOption func(*pgConnOptions) *pgConnOptions

// WithDoNotCleanup makes the broaker not to truncate tables.
//
// Use this when tables are not created yet.
func WithDoNotCleanup() PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.DoNotCleanup = true
		return o
	}
}

// WithSetup runs setup once, after the namespace is created.
//
// Use this to create tables.
func WithSetup(setup func(ctx context.Context, pool kpool.Pool) error) PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.Setup = setup
		return o
	}
}

// NewPoolBroaker returns a PoolBroaker working in the namespace.
//
// The namespace is dropped and created again, so it is empty at first.
//
// # Args
//
// - ctx
//
// - t: scope of the PoolBroaker. t is skipped if $GRAMMARFAB_TEST_DB is not set.
//
// - namespace: name of postgres schema. Use a name unique to the test package.
func NewPoolBroaker(ctx context.Context, t *testing.T, namespace string, options ...PgConnOption) PoolBroaker {
	t.Helper()

	url := os.Getenv(EnvTestDB)
	if url == "" {
		t.Skipf("$%s is not set", EnvTestDB)
	}

	opts := &pgConnOptions{}
	for _, o := range options {
		opts = o(opts)
	}

	ident := pgx.Identifier{namespace}.Sanitize()
	{
		conn, err := pgx.Connect(ctx, url)
		if err != nil {
			t.Fatal(err)
		}
		defer conn.Close(ctx)

		for _, command := range []string{
			fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, ident),
			fmt.Sprintf(`CREATE SCHEMA %s`, ident),
		} {
			if _, err := conn.Exec(ctx, command); err != nil {
				t.Fatalf("failed to prepare namespace %s: %v", namespace, err)
			}
		}
	}

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatal(err)
	}
	config.ConnConfig.RuntimeParams["search_path"] = namespace

	pool, err := pgxpool.ConnectConfig(ctx, config)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if opts.Setup != nil {
		if err := opts.Setup(ctx, kpool.Wrap(pool)); err != nil {
			t.Fatalf("failed to setup namespace %s: %v", namespace, err)
		}
	}

	if opts.DoNotCleanup {
		return &pgNoClean{pool: pool}
	}
	return &pg{pool: pool}
}

func ClearTables(ctx context.Context, p kpool.Queryer, t *testing.T) {
	t.Helper()

	// by cascade, rows in grammar_correction and token_revocation are deleted also.
	for _, command := range []string{
		`TRUNCATE "grammar_correction" RESTART IDENTITY CASCADE`,
		`TRUNCATE "users" RESTART IDENTITY CASCADE`,
	} {
		if _, err := p.Exec(ctx, command); err != nil {
			t.Errorf("fail to clean-up tables.: %v", err)
		}
	}
}

// SchemaRepository returns the path to the schema repository of this module.
func SchemaRepository() string {
	_, here, _, _ := runtime.Caller(0)
	// here = <root>/pkg/db/postgres/pool/testenv/testenv.go
	root := filepath.Join(filepath.Dir(here), "..", "..", "..", "..", "..")
	return filepath.Join(root, "schema", "postgres")
}
