package schema_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	testctx "github.com/opst/grammarfab/internal/testutils/context"
	kpool "github.com/opst/grammarfab/pkg/db/postgres/pool"
	"github.com/opst/grammarfab/pkg/db/postgres/pool/testenv"
	"github.com/opst/grammarfab/pkg/db/postgres/schema"
	"github.com/opst/grammarfab/pkg/utils/try"
)

type exampleRow struct {
	Id   int
	Name string
}

func TestPgSchema_Upgrade(t *testing.T) {
	type When struct {
		Testdata string
	}

	type Then struct {
		VersionBefore int
		VersionAfter  int

		TableFooNotExists bool
		TableFoo          []exampleRow

		TableBarNotExists bool
		TableBar          []exampleRow
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			ctx := contextForTest(t)
			pool := testenv.NewPoolBroaker(
				ctx, t, "schema_test_"+filepath.Base(when.Testdata),
				testenv.WithDoNotCleanup(),
			).GetPool(ctx, t)

			if given, err := os.ReadFile(filepath.Join(when.Testdata, "given.sql")); err == nil {
				try.To(pool.Exec(ctx, string(given))).OrFatal(t)
			} else if !errors.Is(err, os.ErrNotExist) {
				t.Fatal(err)
			}

			testee := schema.New(pool, filepath.Join(when.Testdata, "versions"))
			if got := try.To(testee.Version(ctx)).OrFatal(t); got != then.VersionBefore {
				t.Errorf("version before upgrade\n- got: %v\n- want: %v", got, then.VersionBefore)
			}

			if err := testee.Upgrade(ctx); err != nil {
				t.Fatalf("failed to upgrade schema: %v", err)
			}

			if got := try.To(testee.Version(ctx)).OrFatal(t); got != then.VersionAfter {
				t.Errorf("version after upgrade\n- got: %v\n- want: %v", got, then.VersionAfter)
			}

			for table, want := range map[string]struct {
				notExists bool
				rows      []exampleRow
			}{
				"foo": {notExists: then.TableFooNotExists, rows: then.TableFoo},
				"bar": {notExists: then.TableBarNotExists, rows: then.TableBar},
			} {
				got, err := selectRows(ctx, pool, table)
				if err != nil {
					pgerr := new(pgconn.PgError)
					if !errors.As(err, &pgerr) || !want.notExists || pgerr.Code != pgerrcode.UndefinedTable {
						t.Fatal(err)
					}
					continue
				}
				if want.notExists {
					t.Errorf("table %s should not exist", table)
				}
				if !slices.Equal(got, want.rows) {
					t.Errorf("table %s\n- got: %v\n- want: %v", table, got, want.rows)
				}
			}
		}
	}

	t.Run("case 1: build schema from scratch", theory(
		When{Testdata: "testdata/case1"},
		Then{
			VersionBefore: 0,
			VersionAfter:  2,
			TableFoo: []exampleRow{
				{Id: 1, Name: "foo-1"},
				{Id: 2, Name: "foo-2"},
			},
			TableBar: []exampleRow{
				{Id: 1, Name: "bar-1"},
			},
		},
	))

	t.Run("case 2: upgrade schema from version 1 to 2", theory(
		When{Testdata: "testdata/case2"},
		Then{
			VersionBefore: 1,
			VersionAfter:  2,
			TableFoo: []exampleRow{
				{Id: 1, Name: "foo-1"},
				{Id: 2, Name: "foo-2"},
			},
			TableBar: []exampleRow{
				{Id: 1, Name: "bar-1"},
			},
		},
	))

	t.Run("case 3: no upgrade", theory(
		When{Testdata: "testdata/case3"},
		Then{
			VersionBefore:     2,
			VersionAfter:      2,
			TableFooNotExists: true,
			TableBarNotExists: true,
		},
	))
}

func TestPgSchema_Upgrade_RepositorySchema(t *testing.T) {
	ctx := contextForTest(t)
	pool := testenv.NewPoolBroaker(
		ctx, t, "schema_test_repository", testenv.WithDoNotCleanup(),
	).GetPool(ctx, t)

	testee := schema.New(pool, testenv.SchemaRepository())
	if err := testee.Upgrade(ctx); err != nil {
		t.Fatalf("failed to upgrade schema: %v", err)
	}
	// upgrading again is no-op.
	if err := testee.Upgrade(ctx); err != nil {
		t.Fatalf("failed to upgrade schema again: %v", err)
	}

	for _, table := range []string{"users", "grammar_correction", "token_revocation"} {
		var n int
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSchema_Context(t *testing.T) {
	ctx := contextForTest(t)
	pool := testenv.NewPoolBroaker(
		ctx, t, "schema_test_context", testenv.WithDoNotCleanup(),
	).GetPool(ctx, t)

	// step1. if there are no schema_version table, context should be canceled.
	func() {
		testee := schema.New(pool, "testdata/case4/versions")
		schemaCtx, cancel := testee.Context(ctx)
		defer cancel()

		<-schemaCtx.Done()
		if err := schemaCtx.Err(); !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	}()

	try.To(pool.Exec(ctx, `
		CREATE TABLE "schema_version" ("version" int NOT NULL);
		INSERT INTO "schema_version" ("version") VALUES (1);
	`)).OrFatal(t)

	// step2. if the schema is same version as the requirement, context should not be canceled.
	func() {
		testee := schema.New(pool, "testdata/case4/versions")
		schemaCtx, cancel := testee.Context(ctx)
		defer cancel()

		if err := schemaCtx.Err(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}()

	// step3. if the schema is older than the requirement, context should be canceled.
	func() {
		testee := schema.New(pool, "testdata/case1/versions")
		schemaCtx, cancel := testee.Context(ctx)
		defer cancel()

		<-schemaCtx.Done()
		if err := context.Cause(schemaCtx); !errors.Is(err, schema.ErrOutdated) {
			t.Errorf("cause should tell the reason: %v", err)
		}
	}()

	// step4. if the requirement is updated and the schema is older than the requirement, context should be canceled.
	func() {
		dir := t.TempDir()
		if err := os.Mkdir(filepath.Join(dir, "1"), 0o755); err != nil {
			t.Fatal(err)
		}

		testee := schema.New(pool, dir)
		schemaCtx, cancel := testee.Context(ctx)
		defer cancel()

		if err := schemaCtx.Err(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		if err := os.Mkdir(filepath.Join(dir, "2"), 0o755); err != nil {
			t.Fatal(err)
		}

		<-schemaCtx.Done()
		if err := schemaCtx.Err(); !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	}()
}

func TestNull(t *testing.T) {
	testee := schema.Null()
	ctx := context.Background()

	if v := try.To(testee.Version(ctx)).OrFatal(t); v != -1 {
		t.Errorf("version = %d", v)
	}
	if err := testee.Upgrade(ctx); err == nil {
		t.Error("Upgrade should fail")
	}
	got, cancel := testee.Context(ctx)
	defer cancel()
	if got != ctx {
		t.Error("context is replaced")
	}
}

func selectRows(ctx context.Context, q kpool.Queryer, table string) ([]exampleRow, error) {
	rows, err := q.Query(ctx, `SELECT "id", "name" FROM "`+table+`" ORDER BY "id"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	got := []exampleRow{}
	for rows.Next() {
		var r exampleRow
		if err := rows.Scan(&r.Id, &r.Name); err != nil {
			return nil, err
		}
		got = append(got, r)
	}
	return got, rows.Err()
}

func contextForTest(t *testing.T) context.Context {
	ctx, cancel := testctx.WithTest(context.Background(), t)
	t.Cleanup(cancel)
	return ctx
}
