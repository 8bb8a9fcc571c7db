package main

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/opst/grammarfab/pkg/buildtime"
	configs "github.com/opst/grammarfab/pkg/configs/server"
	kdb "github.com/opst/grammarfab/pkg/db"
	kpg "github.com/opst/grammarfab/pkg/db/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// env is what commands depend on.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	getenv func(string) string
	now    func() time.Time

	loadConfig func(path string) (*configs.ServerConfig, error)
	openDB     func(ctx context.Context, conf *configs.ServerConfig) (kdb.Database, error)

	// newLogger builds a logger writing into stderr.
	newLogger func(stderr io.Writer, verbose bool) *zap.Logger
}

func defaultEnv() *env {
	return &env{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		getenv:     os.Getenv,
		now:        time.Now,
		loadConfig: configs.LoadServerConfig,
		openDB: func(ctx context.Context, conf *configs.ServerConfig) (kdb.Database, error) {
			options := []kpg.Option{}
			if repo := conf.SchemaRepository(); repo != "" {
				options = append(options, kpg.WithSchemaRepository(repo))
			}
			return kpg.New(ctx, conf.Database(), options...)
		},
		newLogger: newLogger,
	}
}

func newLogger(stderr io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zap.NewProductionEncoderConfig()
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoder),
		zapcore.AddSync(stderr),
		level,
	)
	return zap.New(core)
}

var errNoConfig = errors.New("--config is required")

// session is state shared by subcommands in a run.
type session struct {
	env        *env
	configPath string
	verbose    bool
	logger     *zap.Logger
}

// config loads the config file. It fails when --config is not given.
func (s *session) config() (*configs.ServerConfig, error) {
	if s.configPath == "" {
		return nil, errNoConfig
	}
	return s.env.loadConfig(s.configPath)
}

// database opens the database in the config file. Close it after use.
func (s *session) database(ctx context.Context) (kdb.Database, *configs.ServerConfig, error) {
	conf, err := s.config()
	if err != nil {
		return nil, nil, err
	}
	db, err := s.env.openDB(ctx, conf)
	if err != nil {
		return nil, nil, err
	}
	return db, conf, nil
}

func newRootCommand(e *env) *cobra.Command {
	s := &session{env: e, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:          "grammarctl",
		Short:        "administration tool of grammarfab",
		Version:      buildtime.VersionString(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			s.logger = e.newLogger(e.stderr, s.verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = s.logger.Sync()
		},
	}
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	root.PersistentFlags().StringVarP(&s.configPath, "config", "c", e.getenv("GRAMMARFAB_CONFIG"), "path to config file. default: $GRAMMARFAB_CONFIG")
	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "print debug logs")

	root.AddCommand(
		newAdminCommand(s),
		newSchemaCommand(s),
		newTokensCommand(s),
		newCorrectCommand(s),
		newExportCommand(s),
	)

	return root
}
