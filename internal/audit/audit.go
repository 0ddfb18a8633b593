package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authmw "casting-tracker/internal/middleware/auth"
	"casting-tracker/internal/storage"
)

type Store interface {
	CreateAuditLog(ctx context.Context, l *storage.AuditLog) error
}

// Entry describes one admin change. Before and After are marshalled to JSON.
type Entry struct {
	Action   string
	Entity   string
	EntityID string
	Before   any
	After    any
}

// Logger writes audit records. Writes are best effort: a failure is logged
// and never reaches the caller.
type Logger struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func New(store Store, log *slog.Logger) *Logger {
	return &Logger{store: store, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (l *Logger) Record(ctx context.Context, e Entry) {
	const op = "audit.Record"

	rec := &storage.AuditLog{
		ID:        uuid.NewString(),
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  optional(e.EntityID),
		Before:    l.snapshot(e.Before),
		After:     l.snapshot(e.After),
		CreatedAt: l.now(),
	}
	rec.ActorUserID = optional(authmw.UserID(ctx))

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := l.store.CreateAuditLog(ctx, rec); err != nil {
		l.log.Error("failed to write audit log",
			slog.String("op", op),
			slog.String("entity", e.Entity),
			slog.String("action", e.Action),
			slog.String("error", err.Error()),
		)
	}
}

func (l *Logger) snapshot(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		l.log.Error("failed to marshal audit snapshot", slog.String("error", err.Error()))
		return nil
	}
	s := string(b)
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
