// Package pool is the subset of pgx which stores in pkg/db/postgres use.
//
// Stores depend on interfaces here instead of pgxpool directly,
// so tests can hand them a pool scoped to a test schema.
package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Queryer sends SQL. Both of Pool and Tx are Queryer.
//
// Methods are same as ones of `*pgxpool.Pool` and `pgx.Tx`.
type Queryer interface {
	// Exec sends a command which does not return rows.
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)

	// Query sends a command which returns rows. Close rows after use.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow sends a command which returns at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tx is a transaction.
//
// Rollback after Commit is no-op, so it is safe to defer Rollback.
type Tx interface {
	Queryer

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Pool is a connection pool.
type Pool interface {
	Queryer

	// Begin starts a transaction.
	Begin(ctx context.Context) (Tx, error)

	// Ping checks a connection can be acquired and it responds.
	Ping(ctx context.Context) error

	Close()
}

type pgxPool struct {
	*pgxpool.Pool
}

// Wrap makes pgxpool.Pool a Pool.
func Wrap(p *pgxpool.Pool) Pool {
	return pgxPool{Pool: p}
}

func (p pgxPool) Begin(ctx context.Context) (Tx, error) {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
