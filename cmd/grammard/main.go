package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
	configs "github.com/opst/grammarfab/pkg/configs/server"
	kdb "github.com/opst/grammarfab/pkg/db"
	kpg "github.com/opst/grammarfab/pkg/db/postgres"
	"github.com/opst/grammarfab/pkg/echoutil"
	"github.com/opst/grammarfab/pkg/inference/provider"
	"github.com/opst/grammarfab/pkg/ratelimit"
	"github.com/opst/grammarfab/pkg/revocation"
	rvredis "github.com/opst/grammarfab/pkg/revocation/redis"
	"github.com/opst/grammarfab/pkg/utils/filewatch"
	"github.com/opst/grammarfab/pkg/utils/retry"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 15 * time.Second

	// how long to wait for postgres getting ready.
	connectTimeout = time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("-config is required")
	}
	conf, err := configs.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, *loglevel); err != nil {
		log.Fatal(err)
	}
}

// run serves api until ctx is done, or the server should be restarted.
//
// It returns error when the server can not start, or it stopped by other reasons than ctx.
// Those reasons are:
//
// - the rule file is modified.
//
// - the database schema gets older than schema repository.
func run(ctx context.Context, conf *configs.ServerConfig, loglevel string) error {
	db, closeDB, err := connect(ctx, conf)
	if err != nil {
		return err
	}
	defer closeDB()

	pipeline, err := provider.NewPipeline(ctx, conf.Correction())
	if err != nil {
		return err
	}

	var limits *ratelimit.Store
	if rl := conf.RateLimit(); 0 < rl.RPS() {
		limits = ratelimit.NewStore(rl.RPS(), rl.Burst(), ratelimit.WithIdleTTL(rl.IdleTTL()))
	}

	e := newServer(conf, db, pipeline, limits)
	echoutil.SetLevel(e, loglevel)

	watched, cancel := db.Schema().Context(ctx)
	defer cancel()
	if rules := conf.Correction().Rules(); rules != "" {
		wctx, wcancel, err := filewatch.UntilModified(watched, rules)
		if err != nil {
			return err
		}
		defer wcancel()
		watched = wctx
	}

	e.Logger.Info("registered routes:")
	for _, r := range e.Routes() {
		e.Logger.Info(r.Method, " ", r.Path)
	}

	g, gctx := errgroup.WithContext(watched)
	g.Go(func() error {
		err := e.Start(":" + conf.Server().Port())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		e.Logger.Infof("shutting down: %v", context.Cause(gctx))
		graceful, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return e.Shutdown(graceful)
	})
	g.Go(func() error {
		sweeper := revocation.NewSweeper(
			db.Revocations(), conf.Revocation().SweepInterval(),
			revocation.WithReport(func(swept int, err error) {
				if err != nil {
					e.Logger.Errorf("failed to sweep token revocations: %v", err)
					return
				}
				e.Logger.Debugf("%d token revocations are swept", swept)
			}),
		)
		sweeper.Run(gctx)
		return nil
	})
	if limits != nil {
		g.Go(func() error {
			return limits.Janitor(gctx, conf.RateLimit().IdleTTL())
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if cause := context.Cause(watched); cause != nil && ctx.Err() == nil {
		return cause
	}
	return nil
}

// connect opens the database.
//
// When redis is configured, token revocations are stored there.
//
// Call returned func to close connections.
func connect(ctx context.Context, conf *configs.ServerConfig) (kdb.Database, func(), error) {
	closers := []func() error{}
	closeAll := func() {
		for i := len(closers) - 1; 0 <= i; i-- {
			closers[i]()
		}
	}

	options := []kpg.Option{}
	if repo := conf.SchemaRepository(); repo != "" {
		options = append(options, kpg.WithSchemaRepository(repo))
	}
	if rc := conf.Revocation().Redis(); rc != nil {
		rdb := redis.NewClient(&redis.Options{
			Addr:     rc.Addr(),
			Password: rc.Password(),
			DB:       rc.DB(),
		})
		closers = append(closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			closeAll()
			return nil, nil, err
		}
		options = append(options, kpg.WithRevocations(rvredis.New(rdb, rvredis.WithPrefix(rc.Prefix()))))
	}
	db, err := waitDatabase(ctx, conf.Database(), options...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	closers = append(closers, db.Close)
	return db, closeAll, nil
}

// waitDatabase connects to postgres, retrying while it is unreachable.
//
// Malformed url and errors reported by the server (like authentication failure) are not retried.
func waitDatabase(ctx context.Context, url string, options ...kpg.Option) (kdb.Database, error) {
	if _, err := pgxpool.ParseConfig(url); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	return retry.Blocking(
		ctx, retry.ExponentialBackoff(500*time.Millisecond, 2, 10*time.Second),
		func() (kdb.Database, error) {
			db, err := kpg.New(ctx, url, options...)
			if err == nil {
				return db, nil
			}
			if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) || ctx.Err() != nil {
				return nil, err
			}
			log.Printf("database is not ready: %s", err)
			return nil, fmt.Errorf("%w: %w", retry.ErrRetry, err)
		},
	)
}
