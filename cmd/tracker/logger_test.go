package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDualHandler_CopiesErrors(t *testing.T) {
	var core, errs bytes.Buffer
	log := slog.New(&dualHandler{
		coreHandler:  slog.NewTextHandler(&core, &slog.HandlerOptions{Level: slog.LevelDebug}),
		errorHandler: slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}).With(slog.String("op", "test"))

	log.Info("hello")
	log.Error("boom")

	assert.Contains(t, core.String(), "hello")
	assert.Contains(t, core.String(), "boom")
	assert.NotContains(t, errs.String(), "hello")
	assert.Contains(t, errs.String(), "boom")
	assert.Contains(t, errs.String(), "op=test")
}

func TestSetupLogger_ErrorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	log := setupLogger("prod", path)
	log.Debug("hidden")
	log.Error("written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
	assert.NotContains(t, string(data), "hidden")
}
