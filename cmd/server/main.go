package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"possync/internal/app/server/api"
	"possync/internal/app/server/config"
	"possync/internal/domain/datastore"
	"possync/internal/domain/session"
	"possync/internal/domain/shop"
	"possync/internal/infrastructure/migration"
	"possync/internal/infrastructure/storage/postgres"
	"possync/internal/utils/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := session.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL, log)
	if err != nil {
		return err
	}

	deps := api.Deps{
		Sessions:     sessions,
		MaxBatchRows: cfg.Server.MaxBatchRows,
	}

	if cfg.DB.DatabaseURI != "" {
		version, err := migration.NewMigration(cfg.DB.Migrations, cfg.DB.DatabaseURI, nil).Up()
		if err != nil {
			return err
		}
		log.Info("migrations applied", "version", version)

		storage, err := postgres.New(ctx, cfg.DB.DatabaseURI)
		if err != nil {
			return err
		}
		defer storage.Close()

		deps.Shops = postgres.NewShopRepository(storage.Pool(), log)
		deps.Tables = postgres.NewTableRepository(storage.Pool(), log)
		deps.Pinger = storage
	} else {
		if cfg.Env != logger.EnvLocal {
			return errors.New("DATABASE_URI is required outside local environment")
		}
		log.Warn("DATABASE_URI not set, data is kept in memory")
		deps.Shops = shop.NewMemoryRepository()
		deps.Tables = datastore.NewMemory()
	}

	srv := &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           api.New(deps, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", "address", cfg.Server.RunAddress, "env", cfg.Env)
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
