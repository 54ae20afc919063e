package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workspace-access/internal/adapters/activitylog"
	"workspace-access/internal/adapters/auth/odin"
	"workspace-access/internal/adapters/lock/redislock"
	"workspace-access/internal/adapters/storage/mongodb"
	pg "workspace-access/internal/adapters/storage/postgres"
	"workspace-access/internal/adapters/workspace/httpdir"
	"workspace-access/internal/adapters/workspace/memdir"
	"workspace-access/internal/platform/config"
	"workspace-access/internal/platform/logger"
	"workspace-access/internal/router"
	"workspace-access/internal/worker"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// @title Workspace Access API
// @version 1.0
// @description Control de acceso por recurso para organizaciones del workspace.
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr    string
		envFile string
	)
	flagSet := pflag.NewFlagSet("workspace-access", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", "", "listen address (default :$PORT)")
	flagSet.StringVar(&envFile, "env-file", ".env", "optional .env file loaded before reading config")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := config.Load()
	log := logger.NewFromEnv()
	if addr == "" {
		addr = ":" + cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	opts := router.Options{Logger: log}

	// Store
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn("using in-memory grant store; data is lost on restart", nil)
	case "postgres":
		db, err := pg.Open(cfg.Storage.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		closers = append(closers, db)
		if err := pg.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
		opts.DB = db
	case "mongo":
		client, err := mongodb.Connect(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoTimeout)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		repo := mongodb.NewAccessGrantsRepo(client.Database(cfg.Storage.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		opts.Repo = repo
	default:
		return fmt.Errorf("unknown STORAGE %q (memory|postgres|mongo)", cfg.Storage.Driver)
	}

	// Directorio de workspace
	if cfg.Workspace.BaseURL != "" {
		dir, err := httpdir.NewClient(httpdir.Config{
			BaseURL: cfg.Workspace.BaseURL,
			APIKey:  cfg.Workspace.APIKey,
			Timeout: cfg.Workspace.Timeout,
		})
		if err != nil {
			return fmt.Errorf("workspace client: %w", err)
		}
		opts.Directory = dir
	} else {
		dir := memdir.New()
		if cfg.Workspace.SeedFile != "" {
			seed, err := memdir.LoadSeedFile(cfg.Workspace.SeedFile)
			if err != nil {
				return err
			}
			if err := dir.Apply(seed); err != nil {
				return err
			}
		}
		log.Warn("using in-memory workspace directory", map[string]any{"seed_file": cfg.Workspace.SeedFile})
		opts.Directory = dir
	}

	// Auth: sin Odin se acepta X-Debug-User-ID (modo dev)
	if cfg.Odin.BaseURL != "" {
		client, err := odin.NewClient(odin.Config{
			BaseURL: cfg.Odin.BaseURL,
			APIKey:  cfg.Odin.APIKey,
			Timeout: cfg.Odin.Timeout,
		})
		if err != nil {
			return fmt.Errorf("odin client: %w", err)
		}
		opts.AuthVerifier = odin.NewVerifier(client)
	} else {
		log.Warn("odin not configured; X-Debug-User-ID header is trusted", nil)
	}

	// Lock por tupla
	if cfg.Redis.Address != "" {
		client, err := redislock.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		closers = append(closers, client)
		opts.Locker = redislock.New(client, cfg.Redis.LockTTL, log)
	}

	// Activity log
	sink := activitylog.NewLogSink(log)
	if cfg.RabbitMQ.URI != "" {
		pub, err := activitylog.NewPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			return err
		}
		closers = append(closers, pub)
		opts.Activity = activitylog.Fanout{sink, pub}
	} else {
		opts.Activity = sink
	}

	handler, svc, err := router.NewRouter(opts)
	if err != nil {
		return err
	}

	go worker.NewSweeper(svc, cfg.Sweep.Interval, log).Run(ctx)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": addr, "storage": cfg.Storage.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
