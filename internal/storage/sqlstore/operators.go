package sqlstore

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"casting-tracker/internal/storage"
)

var operatorColumns = []string{"id", "name", "code", "created_at", "updated_at"}

func (c *conn) GetOperator(ctx context.Context, id string) (*storage.Operator, error) {
	return c.operatorBy(ctx, "storage.sqlstore.GetOperator", sq.Eq{"id": id})
}

func (s *Storage) GetOperatorByCode(ctx context.Context, code string) (*storage.Operator, error) {
	return s.operatorBy(ctx, "storage.sqlstore.GetOperatorByCode", sq.Eq{"code": code})
}

func (c *conn) operatorBy(ctx context.Context, op string, where sq.Eq) (*storage.Operator, error) {
	query, args, err := c.builder.Select(operatorColumns...).From("operators").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var o storage.Operator
	if err := sqlx.GetContext(ctx, c.q, &o, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &o, nil
}

func (s *Storage) ListOperators(ctx context.Context) ([]storage.Operator, error) {
	const op = "storage.sqlstore.ListOperators"

	query, args, err := s.builder.Select(operatorColumns...).From("operators").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	operators := []storage.Operator{}
	if err := sqlx.SelectContext(ctx, s.q, &operators, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return operators, nil
}

func (s *Storage) CreateOperator(ctx context.Context, o *storage.Operator) error {
	const op = "storage.sqlstore.CreateOperator"

	query, args, err := s.builder.Insert("operators").
		Columns(operatorColumns...).
		Values(o.ID, o.Name, o.Code, o.CreatedAt, o.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (s *Storage) UpdateOperator(ctx context.Context, id string, upd storage.OperatorUpdate, at time.Time) error {
	const op = "storage.sqlstore.UpdateOperator"

	set := map[string]interface{}{"updated_at": at}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Code != nil {
		set["code"] = *upd.Code
	}

	query, args, err := s.builder.Update("operators").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteOperator fails with storage.ErrInUse while sessions or production
// counts still reference the operator.
func (s *Storage) DeleteOperator(ctx context.Context, id string) error {
	const op = "storage.sqlstore.DeleteOperator"

	query, args, err := s.builder.Delete("operators").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	if err := affected(res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
