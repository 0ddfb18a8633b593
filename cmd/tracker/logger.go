package main

import (
	"context"
	"log/slog"
	"os"

	"casting-tracker/internal/config"
)

// dualHandler writes everything to the core handler and copies error
// records to the error file handler.
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		if err = h.coreHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		// A broken error file must not break stdout logging.
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env, errorFile string) *slog.Logger {
	level := slog.LevelDebug
	if env == config.EnvProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case config.EnvDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	if errorFile == "" {
		return slog.New(coreHandler)
	}

	f, err := os.OpenFile(errorFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(coreHandler)
		logger.Warn("cannot open error log file", slog.String("path", errorFile), slog.String("error", err.Error()))
		return logger
	}

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelError}),
	})
}
