package sqlstore

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"casting-tracker/internal/storage"
)

// ListTimedProductions returns finished timed intervals matching the
// filter, newest first. Instantaneous increments are left out.
func (s *Storage) ListTimedProductions(ctx context.Context, f storage.ProductionFilter) ([]storage.TimedProduction, error) {
	const op = "storage.sqlstore.ListTimedProductions"

	q := s.builder.
		Select(
			"pc.id", "pc.piece_id", "p.name AS piece_name", "p.service_id",
			"sv.client AS service_client", "sv.description AS service_description",
			"pc.operator_id", "o.name AS operator_name",
			"pc.started_at", "pc.finished_at", "pc.elapsed_seconds", "pc.created_at",
		).
		From("production_counts pc").
		Join("pieces p ON p.id = pc.piece_id").
		Join("services sv ON sv.id = p.service_id").
		Join("operators o ON o.id = pc.operator_id").
		Where(sq.NotEq{"pc.elapsed_seconds": nil}).
		OrderBy("pc.created_at DESC")

	if f.OperatorID != "" {
		q = q.Where(sq.Eq{"pc.operator_id": f.OperatorID})
	}
	if f.ServiceID != "" {
		q = q.Where(sq.Eq{"p.service_id": f.ServiceID})
	}
	if f.PieceID != "" {
		q = q.Where(sq.Eq{"pc.piece_id": f.PieceID})
	}
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"pc.created_at": f.From.UTC()})
	}
	if f.To != nil {
		q = q.Where(sq.LtOrEq{"pc.created_at": f.To.UTC()})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	records := []storage.TimedProduction{}
	if err := sqlx.SelectContext(ctx, s.q, &records, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

// OperatorTotals sums produced quantity per operator inside [from, to].
func (s *Storage) OperatorTotals(ctx context.Context, from, to time.Time, operatorID string) ([]storage.OperatorTotal, error) {
	const op = "storage.sqlstore.OperatorTotals"

	q := s.builder.
		Select("operator_id", s.sum("quantity")+" AS total").
		From("production_counts").
		Where(sq.GtOrEq{"created_at": from.UTC()}).
		Where(sq.LtOrEq{"created_at": to.UTC()}).
		GroupBy("operator_id")
	if operatorID != "" {
		q = q.Where(sq.Eq{"operator_id": operatorID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	totals := []storage.OperatorTotal{}
	if err := sqlx.SelectContext(ctx, s.q, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return totals, nil
}
