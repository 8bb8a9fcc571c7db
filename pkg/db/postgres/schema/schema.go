// Package schema upgrades database schema with SQL files in a schema repository.
//
// A schema repository is a directory laid out as below:
//
//	<repository>/
//	  1/
//	    00_xxx.sql
//	    10_yyy.sql
//	  2/
//	    ...
//
// Each numbered directory is a schema version. SQL files in it are applied
// in lexical order. The current version is recorded in "schema_version" table.
package schema

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgtype"
	kdb "github.com/opst/grammarfab/pkg/db"
	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	xe "github.com/opst/grammarfab/pkg/errors"
)

// ErrOutdated means the database is older than the schema repository.
var ErrOutdated = errors.New("schema is outdated")

type pgSchema struct {
	pool kpool.Pool
	repo repository
}

var _ kdb.SchemaInterface = &pgSchema{}

// New creates SchemaInterface upgrading the database with schemaRepository.
func New(pool kpool.Pool, schemaRepository string) kdb.SchemaInterface {
	return &pgSchema{pool: pool, repo: repository(schemaRepository)}
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	var version pgtype.Int4
	err := s.pool.QueryRow(ctx, `SELECT max("version") FROM "schema_version"`).Scan(&version)
	if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UndefinedTable {
		return 0, nil
	} else if err != nil {
		return -1, xe.Wrap(err)
	}
	if version.Status != pgtype.Present {
		return 0, nil
	}
	return int(version.Int), nil
}

// Upgrade applies versions newer than the current one in a transaction.
func (s *pgSchema) Upgrade(ctx context.Context) error {
	steps, err := s.repo.steps()
	if err != nil {
		return err
	}
	current, err := s.Version(ctx)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	for _, st := range steps {
		if st.Version <= current {
			continue
		}
		if err := st.apply(ctx, tx); err != nil {
			return xe.WrapWithNote(fmt.Sprintf("version %d", st.Version), err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM "schema_version"`); err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO "schema_version" ("version") VALUES ($1)`, st.Version); err != nil {
			return xe.Wrap(err)
		}
	}

	return xe.Wrap(tx.Commit(ctx))
}

// Context is canceled when the database gets older than the repository.
//
// The repository is checked at once, and then each time a version is added or removed.
// The cause of cancellation wraps ErrOutdated, or tells why it can not be checked.
func (s *pgSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(xe.Wrap(err))
		return cctx, func() {}
	}
	if err := w.Add(string(s.repo)); err != nil {
		w.Close()
		cancel(xe.Wrap(err))
		return cctx, func() {}
	}

	check := func() {
		if err := s.upToDate(ctx); err != nil {
			cancel(err)
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if filepath.Dir(ev.Name) != filepath.Clean(string(s.repo)) {
					continue
				}
				check()
			}
		}
	}()

	check()
	return cctx, func() { cancel(nil) }
}

func (s *pgSchema) upToDate(ctx context.Context) error {
	latest, err := s.repo.latest()
	if err != nil {
		return xe.WrapWithNote("failed to read schema repository", err)
	}
	current, err := s.Version(ctx)
	if err != nil {
		return xe.WrapWithNote("failed to get current schema version", err)
	}
	if current < latest {
		return fmt.Errorf("%w: %d (in db) < %d (in repository)", ErrOutdated, current, latest)
	}
	return nil
}

// Null returns SchemaInterface for when no schema repository is configured.
//
// It never upgrades, and its Context is never canceled by schema.
func Null() kdb.SchemaInterface {
	return nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(context.Context) error {
	return errors.New("no schema repository available")
}

func (nullSchema) Version(context.Context) (int, error) {
	return -1, nil
}

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctx, func() {}
}
