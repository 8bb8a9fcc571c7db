package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opst/grammarfab/pkg/auth"
	configs "github.com/opst/grammarfab/pkg/configs/server"
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/db/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testConfig = `
database: postgres://example.invalid/grammarfab
schemaRepository: /etc/grammarfab/schema
auth:
  secret: test-secret
  minPasswordLength: 8
`

type harness struct {
	env    *env
	db     *mocks.MockDatabase
	stdout *bytes.Buffer
	logs   *observer.ObservedLogs
	vars   map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		db:     mocks.NewMockDatabase(),
		stdout: new(bytes.Buffer),
		vars:   map[string]string{},
	}
	core, logs := observer.New(zapcore.DebugLevel)
	h.logs = logs
	h.env = &env{
		stdin:  strings.NewReader(""),
		stdout: h.stdout,
		stderr: io.Discard,
		getenv: func(k string) string { return h.vars[k] },
		now:    func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
		loadConfig: func(path string) (*configs.ServerConfig, error) {
			require.Equal(t, "grammarfab.yaml", path)
			return configs.Unmarshal([]byte(testConfig))
		},
		openDB: func(ctx context.Context, conf *configs.ServerConfig) (kdb.Database, error) {
			return h.db, nil
		},
		newLogger: func(io.Writer, bool) *zap.Logger { return zap.New(core) },
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := newRootCommand(h.env)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestAdminCreate(t *testing.T) {
	t.Run("it creates an admin user", func(t *testing.T) {
		h := newHarness(t)
		h.db.MockUsers.Impl.Create = func(ctx context.Context, nu kdb.NewUser) (kdb.User, error) {
			return kdb.User{Id: 1, UUID: "uuid-1", Email: nu.Email, FullName: nu.FullName, Role: nu.Role}, nil
		}

		err := h.run(
			"-c", "grammarfab.yaml", "admin", "create",
			"--email", "root@example.com", "--name", " Root ", "--password", "password1",
		)
		require.NoError(t, err)

		require.Len(t, h.db.MockUsers.Calls.Create, 1)
		created := h.db.MockUsers.Calls.Create[0]
		assert.Equal(t, "root@example.com", created.Email)
		assert.Equal(t, "Root", created.FullName)
		assert.Equal(t, kdb.RoleAdmin, created.Role)
		assert.True(t, auth.CheckPassword(created.HashedPassword, "password1"))

		assert.Equal(t, "uuid-1\n", h.stdout.String())
		assert.Equal(t, 1, h.logs.FilterMessage("admin user is created").Len())
	})

	t.Run("password can be given by environment variable", func(t *testing.T) {
		h := newHarness(t)
		h.vars[envAdminPassword] = "from-environment"
		h.db.MockUsers.Impl.Create = func(ctx context.Context, nu kdb.NewUser) (kdb.User, error) {
			return kdb.User{Id: 1, UUID: "uuid-1"}, nil
		}

		require.NoError(t, h.run("-c", "grammarfab.yaml", "admin", "create", "--email", "root@example.com", "--name", "Root"))
		assert.True(t, auth.CheckPassword(h.db.MockUsers.Calls.Create[0].HashedPassword, "from-environment"))
	})

	t.Run("config file is taken from environment variable", func(t *testing.T) {
		h := newHarness(t)
		h.vars["GRAMMARFAB_CONFIG"] = "grammarfab.yaml"
		h.db.MockUsers.Impl.Create = func(ctx context.Context, nu kdb.NewUser) (kdb.User, error) {
			return kdb.User{Id: 1, UUID: "uuid-1"}, nil
		}

		require.NoError(t, h.run("admin", "create", "--email", "root@example.com", "--name", "Root", "--password", "password1"))
		assert.Len(t, h.db.MockUsers.Calls.Create, 1)
	})

	for name, args := range map[string][]string{
		"broken email":   {"--email", "root", "--name", "Root", "--password", "password1"},
		"blank name":     {"--email", "root@example.com", "--name", " ", "--password", "password1"},
		"no password":    {"--email", "root@example.com", "--name", "Root"},
		"short password": {"--email", "root@example.com", "--name", "Root", "--password", "short"},
		"no email flag":  {"--name", "Root", "--password", "password1"},
	} {
		t.Run("it rejects "+name, func(t *testing.T) {
			h := newHarness(t)
			err := h.run(append([]string{"-c", "grammarfab.yaml", "admin", "create"}, args...)...)
			assert.Error(t, err)
			assert.Empty(t, h.db.MockUsers.Calls.Create)
		})
	}

	t.Run("it tells duplicated email", func(t *testing.T) {
		h := newHarness(t)
		h.db.MockUsers.Impl.Create = func(ctx context.Context, nu kdb.NewUser) (kdb.User, error) {
			return kdb.User{}, kdb.ErrConflict
		}
		err := h.run("-c", "grammarfab.yaml", "admin", "create", "--email", "root@example.com", "--name", "Root", "--password", "password1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registered already")
	})

	t.Run("it needs config", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("admin", "create", "--email", "root@example.com", "--name", "Root", "--password", "password1")
		assert.ErrorIs(t, err, errNoConfig)
	})
}

func TestSchemaUpgrade(t *testing.T) {
	h := newHarness(t)
	version := 1
	h.db.MockSchema.Impl.Version = func(ctx context.Context) (int, error) { return version, nil }
	h.db.MockSchema.Impl.Upgrade = func(ctx context.Context) error {
		version = 3
		return nil
	}

	require.NoError(t, h.run("-c", "grammarfab.yaml", "schema", "upgrade"))
	assert.Equal(t, "3\n", h.stdout.String())

	entries := h.logs.FilterMessage("schema is upgraded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["from"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["to"])
}

func TestTokensSweep(t *testing.T) {
	h := newHarness(t)
	h.db.MockRevocations.Impl.Sweep = func(ctx context.Context, now time.Time) (int, error) {
		return 4, nil
	}

	require.NoError(t, h.run("-c", "grammarfab.yaml", "tokens", "sweep"))
	assert.Equal(t, "4\n", h.stdout.String())
	require.Len(t, h.db.MockRevocations.Calls.Sweep, 1)
	assert.Equal(t, h.env.now(), h.db.MockRevocations.Calls.Sweep[0])
}

func TestCorrect(t *testing.T) {
	t.Run("it corrects arguments", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("correct", "i am going to store", "everyone are happy"))
		assert.Equal(t, "I am going to store.\nEveryone is happy.\n", h.stdout.String())
	})

	t.Run("it corrects each line of stdin", func(t *testing.T) {
		h := newHarness(t)
		h.env.stdin = strings.NewReader("i am going to store\n  \nA\n")
		require.NoError(t, h.run("correct"))
		assert.Equal(t, "I am going to store.\n\nA.\n", h.stdout.String())
	})

	t.Run("it uses the pipeline in config", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("-c", "grammarfab.yaml", "correct", "she are a nurse"))
		assert.Equal(t, "She is a nurse.\n", h.stdout.String())
	})
}

func TestExport(t *testing.T) {
	t.Run("it writes corrections of a user in the period", func(t *testing.T) {
		h := newHarness(t)
		h.db.MockUsers.Impl.GetByUUID = func(ctx context.Context, uuid string) (kdb.User, error) {
			return kdb.User{Id: 7, UUID: uuid}, nil
		}
		h.db.MockCorrections.Impl.Find = func(ctx context.Context, q kdb.CorrectionQuery, page kdb.Page) ([]kdb.Correction, error) {
			return []kdb.Correction{
				{Id: 2, OriginalText: "she are a nurse", CorrectedText: "She is a nurse.", CreatedAt: time.Date(2024, 2, 2, 9, 0, 0, 0, time.UTC)},
				{Id: 1, OriginalText: "i am", CorrectedText: "I am.", CreatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)},
			}, nil
		}

		out := filepath.Join(t.TempDir(), "reports", "alice.xlsx")
		require.NoError(t, h.run(
			"-c", "grammarfab.yaml", "export", "--out", out,
			"--user", "uuid-7", "--start-date", "2024-02-01", "--end-date", "2024-02-02",
		))
		assert.Equal(t, "2\n", h.stdout.String())

		require.Len(t, h.db.MockCorrections.Calls.Find, 1)
		query := h.db.MockCorrections.Calls.Find[0].Query
		require.NotNil(t, query.UserId)
		assert.Equal(t, int64(7), *query.UserId)
		require.NotNil(t, query.Since)
		require.NotNil(t, query.Until)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *query.Since)
		assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), *query.Until)

		book, err := excelize.OpenFile(out)
		require.NoError(t, err)
		defer book.Close()
		rows, err := book.GetRows("Corrections")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "She is a nurse.", rows[1][3])

		assert.Equal(t, 1, h.logs.FilterMessage("corrections are exported").Len())
	})

	t.Run("without filters, it exports everything", func(t *testing.T) {
		h := newHarness(t)
		h.db.MockCorrections.Impl.Find = func(ctx context.Context, q kdb.CorrectionQuery, page kdb.Page) ([]kdb.Correction, error) {
			return []kdb.Correction{}, nil
		}

		out := filepath.Join(t.TempDir(), "all.xlsx")
		require.NoError(t, h.run("-c", "grammarfab.yaml", "export", "-o", out))
		assert.Equal(t, "0\n", h.stdout.String())
		assert.Equal(t, kdb.CorrectionQuery{}, h.db.MockCorrections.Calls.Find[0].Query)
		assert.FileExists(t, out)
	})

	t.Run("unknown user is an error", func(t *testing.T) {
		h := newHarness(t)
		h.db.MockUsers.Impl.GetByUUID = func(ctx context.Context, uuid string) (kdb.User, error) {
			return kdb.User{}, kdb.ErrMissing
		}

		err := h.run("-c", "grammarfab.yaml", "export", "-o", filepath.Join(t.TempDir(), "x.xlsx"), "--user", "nobody")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
		assert.Empty(t, h.db.MockCorrections.Calls.Find)
	})

	for name, args := range map[string][]string{
		"no output":         {},
		"broken start date": {"-o", "x.xlsx", "--start-date", "2024/02/01"},
		"broken end date":   {"-o", "x.xlsx", "--end-date", "yesterday"},
		"end before start":  {"-o", "x.xlsx", "--start-date", "2024-02-02", "--end-date", "2024-02-01"},
	} {
		t.Run("it rejects "+name, func(t *testing.T) {
			h := newHarness(t)
			err := h.run(append([]string{"-c", "grammarfab.yaml", "export"}, args...)...)
			assert.Error(t, err)
			assert.Empty(t, h.db.MockCorrections.Calls.Find)
		})
	}
}
