package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"casting-tracker/internal/storage"
)

var sessionColumns = []string{
	"id", "operator_id", "service_id", "started_at", "pause_started_at", "pause_ended_at", "ended_at", "created_at",
}

// CreateSession inserts a session. running_marker is set while the session
// is open, so a second open session for the pair violates the unique key.
func (c *conn) CreateSession(ctx context.Context, s *storage.OperationSession) error {
	const op = "storage.sqlstore.CreateSession"

	query, args, err := c.builder.Insert("operation_sessions").
		Columns(append(sessionColumns, "running_marker")...).
		Values(s.ID, s.OperatorID, s.ServiceID, s.StartedAt, s.PauseStartedAt, s.PauseEndedAt, s.EndedAt, s.CreatedAt,
			marker(s.EndedAt == nil)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	if _, err := c.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (c *conn) LatestSession(ctx context.Context, operatorID, serviceID string) (*storage.OperationSession, error) {
	const op = "storage.sqlstore.LatestSession"

	query, args, err := c.builder.Select(sessionColumns...).
		From("operation_sessions").
		Where(sq.Eq{"operator_id": operatorID, "service_id": serviceID}).
		OrderBy("started_at DESC", "created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var s storage.OperationSession
	if err := sqlx.GetContext(ctx, c.q, &s, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &s, nil
}

func (c *conn) UpdateSession(ctx context.Context, s *storage.OperationSession) error {
	const op = "storage.sqlstore.UpdateSession"

	query, args, err := c.builder.Update("operation_sessions").
		Set("pause_started_at", s.PauseStartedAt).
		Set("pause_ended_at", s.PauseEndedAt).
		Set("ended_at", s.EndedAt).
		Set("running_marker", marker(s.EndedAt == nil)).
		Where(sq.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	res, err := c.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *conn) ServiceSessions(ctx context.Context, serviceID string) ([]storage.OperationSession, error) {
	const op = "storage.sqlstore.ServiceSessions"

	query, args, err := c.builder.Select(sessionColumns...).
		From("operation_sessions").
		Where(sq.Eq{"service_id": serviceID}).
		OrderBy("started_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var sessions []storage.OperationSession
	if err := sqlx.SelectContext(ctx, c.q, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sessions, nil
}
