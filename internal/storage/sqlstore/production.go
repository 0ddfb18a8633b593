package sqlstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"casting-tracker/internal/storage"
)

var productionColumns = []string{
	"id", "piece_id", "operator_id", "quantity", "started_at", "finished_at", "elapsed_seconds", "created_at",
}

// CreateProductionCount inserts a count. open_marker is set for an open
// interval, so a second open interval for the pair violates the unique key.
func (c *conn) CreateProductionCount(ctx context.Context, pc *storage.ProductionCount) error {
	const op = "storage.sqlstore.CreateProductionCount"

	query, args, err := c.builder.Insert("production_counts").
		Columns(append(productionColumns, "open_marker")...).
		Values(pc.ID, pc.PieceID, pc.OperatorID, pc.Quantity, pc.StartedAt, pc.FinishedAt, pc.ElapsedSeconds, pc.CreatedAt,
			marker(pc.IsOpen())).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}

	if _, err := c.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

func (c *conn) LatestOpenProduction(ctx context.Context, pieceID, operatorID string) (*storage.ProductionCount, error) {
	const op = "storage.sqlstore.LatestOpenProduction"

	query, args, err := c.builder.Select(productionColumns...).
		From("production_counts").
		Where(sq.Eq{"piece_id": pieceID, "operator_id": operatorID, "finished_at": nil}).
		Where(sq.NotEq{"started_at": nil}).
		OrderBy("started_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var pc storage.ProductionCount
	if err := sqlx.GetContext(ctx, c.q, &pc, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &pc, nil
}

// CloseProduction finishes an open interval. A record that is already
// closed yields storage.ErrNotFound.
func (c *conn) CloseProduction(ctx context.Context, pc *storage.ProductionCount) error {
	const op = "storage.sqlstore.CloseProduction"

	query, args, err := c.builder.Update("production_counts").
		Set("finished_at", pc.FinishedAt).
		Set("elapsed_seconds", pc.ElapsedSeconds).
		Set("quantity", pc.Quantity).
		Set("open_marker", nil).
		Where(sq.Eq{"id": pc.ID, "finished_at": nil}).
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

// ProductionTotals sums produced quantity per piece and operator for a service.
func (s *Storage) ProductionTotals(ctx context.Context, serviceID, operatorID string) ([]storage.PieceOperatorTotal, error) {
	const op = "storage.sqlstore.ProductionTotals"

	q := s.builder.
		Select("pc.piece_id", "pc.operator_id", s.sum("pc.quantity")+" AS total_produced").
		From("production_counts pc").
		Join("pieces p ON p.id = pc.piece_id").
		Where(sq.Eq{"p.service_id": serviceID}).
		GroupBy("pc.piece_id", "pc.operator_id").
		OrderBy("pc.piece_id", "pc.operator_id")
	if operatorID != "" {
		q = q.Where(sq.Eq{"pc.operator_id": operatorID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	totals := []storage.PieceOperatorTotal{}
	if err := sqlx.SelectContext(ctx, s.q, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return totals, nil
}
