package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pgscope/pgscope/internal/config"
	"github.com/pgscope/pgscope/internal/database"
	"github.com/pgscope/pgscope/internal/logger"
	"github.com/pgscope/pgscope/internal/schema"
	"github.com/pgscope/pgscope/internal/server"
	"github.com/pgscope/pgscope/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Missing .env is fine; environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(logger.DefaultConfig()).Error("load configuration", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := run(cfg, log); err != nil {
		log.Error("server exited", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	admin := database.Target{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	}
	settings := database.PoolSettings{
		MaxConns:       cfg.Database.MaxConns,
		MinConns:       cfg.Database.MinConns,
		ConnectTimeout: cfg.Database.ConnectTimeout,
	}

	manager, err := database.NewManager(ctx, admin, settings, log)
	if err != nil {
		return err
	}
	defer manager.Close()
	log.Info("admin pool ready", "target", admin.Redacted())

	var exporter snapshot.Exporter
	if cfg.Snapshot.AccessKey != "" {
		store, err := snapshot.NewObjectStore(ctx, cfg.Snapshot)
		if err != nil {
			return err
		}
		exporter = store
		log.Info("snapshot export enabled", "bucket", cfg.Snapshot.Bucket)
	} else {
		log.Warn("snapshot export disabled; no object store credentials")
	}

	intro := schema.NewIntrospector(manager)
	tables := schema.NewTableManager(manager, log)
	fks := schema.NewConstraintManager(manager, log)
	snaps := snapshot.NewService(manager, intro, fks, exporter, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.New(manager, intro, tables, fks, snaps, log).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
