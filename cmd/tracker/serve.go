package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/auth"
	"casting-tracker/internal/config"
	"casting-tracker/internal/events"
	generate_excel "casting-tracker/internal/service/generate-excel"
	"casting-tracker/internal/service/report"
	"casting-tracker/internal/storage/sqlstore"
	"casting-tracker/internal/tracking"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := setupLogger(cfg.Env, cfg.Log.ErrorFile)
	log.Info("starting casting-tracker", slog.String("env", cfg.Env), slog.String("driver", cfg.Storage.Driver))

	storage, err := sqlstore.New(cfg.Storage)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		return err
	}
	defer storage.Close()

	if cfg.Storage.Automigrate {
		if err := storage.Migrate(); err != nil {
			log.Error("failed to migrate", slog.String("error", err.Error()))
			return err
		}
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Redis.URL != "" {
		client, err := events.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Error("failed to connect to redis", slog.String("error", err.Error()))
			return err
		}
		defer client.Close()
		publisher = events.NewRedisPublisher(client, cfg.Redis.Stream, log)
		log.Info("publishing events", slog.String("stream", cfg.Redis.Stream))
	}

	reports := report.NewReportService(storage)

	a := &app{
		cfg:     cfg,
		log:     log,
		storage: storage,
		tracker: tracking.New(storage, log, tracking.WithPublisher(publisher)),
		reports: reports,
		excel:   generate_excel.NewGenerateService(reports),
		auditor: audit.New(storage, log),
		tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(a),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("failed start server", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
