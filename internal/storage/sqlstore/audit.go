package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"casting-tracker/internal/storage"
)

var auditColumns = []string{"id", "actor_user_id", "action", "entity", "entity_id", "before_data", "after_data", "created_at"}

const defaultAuditLimit = 100

func (s *Storage) CreateAuditLog(ctx context.Context, l *storage.AuditLog) error {
	const op = "storage.sqlstore.CreateAuditLog"

	query, args, err := s.builder.Insert("audit_logs").
		Columns(auditColumns...).
		Values(l.ID, l.ActorUserID, l.Action, l.Entity, l.EntityID, l.Before, l.After, l.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (s *Storage) ListAuditLogs(ctx context.Context, f storage.AuditFilter) ([]storage.AuditLog, error) {
	const op = "storage.sqlstore.ListAuditLogs"

	limit := f.Limit
	if limit == 0 {
		limit = defaultAuditLimit
	}

	q := s.builder.Select(auditColumns...).From("audit_logs").OrderBy("created_at DESC").Limit(limit)
	if f.Entity != "" {
		q = q.Where(sq.Eq{"entity": f.Entity})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	logs := []storage.AuditLog{}
	if err := sqlx.SelectContext(ctx, s.q, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return logs, nil
}
