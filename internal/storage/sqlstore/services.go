package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"casting-tracker/internal/storage"
)

var serviceColumns = []string{
	"id", "client", "description", "notes", "planned_preparation_date", "active", "completed",
	"preparation_started_at", "preparation_finished_at", "preparation_seconds",
	"total_production_seconds", "completed_at", "scrap_value", "created_at", "updated_at",
}

var pieceColumns = []string{
	"id", "service_id", "name", "planned_quantity", "metal_type", "material_brand", "created_at",
}

func (c *conn) GetService(ctx context.Context, id string) (*storage.Service, error) {
	const op = "storage.sqlstore.GetService"

	query, args, err := c.builder.Select(serviceColumns...).From("services").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var svc storage.Service
	if err := sqlx.GetContext(ctx, c.q, &svc, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &svc, nil
}

func (c *conn) GetPiece(ctx context.Context, id string) (*storage.Piece, error) {
	const op = "storage.sqlstore.GetPiece"

	query, args, err := c.builder.Select(pieceColumns...).From("pieces").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var p storage.Piece
	if err := sqlx.GetContext(ctx, c.q, &p, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &p, nil
}

func (c *conn) piecesOf(ctx context.Context, serviceIDs ...string) (map[string][]storage.Piece, error) {
	const op = "storage.sqlstore.piecesOf"

	out := make(map[string][]storage.Piece, len(serviceIDs))
	if len(serviceIDs) == 0 {
		return out, nil
	}

	query, args, err := c.builder.Select(pieceColumns...).From("pieces").
		Where(sq.Eq{"service_id": serviceIDs}).
		OrderBy("created_at", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var pieces []storage.Piece
	if err := sqlx.SelectContext(ctx, c.q, &pieces, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, p := range pieces {
		out[p.ServiceID] = append(out[p.ServiceID], p)
	}
	return out, nil
}

// ListServices returns every service with its pieces, newest first.
func (s *Storage) ListServices(ctx context.Context) ([]storage.Service, error) {
	const op = "storage.sqlstore.ListServices"

	query, args, err := s.builder.Select(serviceColumns...).From("services").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	services := []storage.Service{}
	if err := sqlx.SelectContext(ctx, s.q, &services, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]string, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}
	pieces, err := s.piecesOf(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range services {
		services[i].Pieces = pieces[services[i].ID]
	}
	return services, nil
}

func (s *Storage) GetServiceWithPieces(ctx context.Context, id string) (*storage.Service, error) {
	const op = "storage.sqlstore.GetServiceWithPieces"

	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	pieces, err := s.piecesOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	svc.Pieces = pieces[id]
	return svc, nil
}

// CreateService stores the service and its pieces together.
func (s *Storage) CreateService(ctx context.Context, svc *storage.Service) error {
	const op = "storage.sqlstore.CreateService"

	return s.inTx(ctx, func(c *conn) error {
		query, args, err := c.builder.Insert("services").
			Columns(serviceColumns...).
			Values(svc.ID, svc.Client, svc.Description, svc.Notes, svc.PlannedPreparationDate, svc.Active, svc.Completed,
				svc.PreparationStartedAt, svc.PreparationFinishedAt, svc.PreparationSeconds,
				svc.TotalProductionSeconds, svc.CompletedAt, svc.ScrapValue, svc.CreatedAt, svc.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("%s: build query: %w", op, err)
		}
		if _, err := c.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: insert service: %w", op, classify(err))
		}

		if len(svc.Pieces) == 0 {
			return nil
		}

		ins := c.builder.Insert("pieces").Columns(pieceColumns...)
		for _, p := range svc.Pieces {
			ins = ins.Values(p.ID, svc.ID, p.Name, p.PlannedQuantity, p.MetalType, p.MaterialBrand, p.CreatedAt)
		}
		query, args, err = ins.ToSql()
		if err != nil {
			return fmt.Errorf("%s: build query: %w", op, err)
		}
		if _, err := c.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: insert pieces: %w", op, classify(err))
		}
		return nil
	})
}

// UpdateService applies the non-nil fields of upd.
func (s *Storage) UpdateService(ctx context.Context, id string, upd storage.ServiceUpdate, at time.Time) error {
	const op = "storage.sqlstore.UpdateService"

	set := map[string]interface{}{"updated_at": at}
	if upd.Client != nil {
		set["client"] = *upd.Client
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.PlannedPreparationDate != nil {
		set["planned_preparation_date"] = *upd.PlannedPreparationDate
	}
	if upd.Active != nil {
		set["active"] = *upd.Active
	}
	if upd.ScrapValue != nil {
		set["scrap_value"] = *upd.ScrapValue
	}

	query, args, err := s.builder.Update("services").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
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

func (s *Storage) DeleteService(ctx context.Context, id string) error {
	const op = "storage.sqlstore.DeleteService"

	query, args, err := s.builder.Delete("services").Where(sq.Eq{"id": id}).ToSql()
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

// CompleteService marks the service completed unless it already is.
// It reports whether this call made the change.
func (c *conn) CompleteService(ctx context.Context, serviceID string, at time.Time, totalSeconds int64) (bool, error) {
	const op = "storage.sqlstore.CompleteService"

	query, args, err := c.builder.Update("services").
		Set("completed", true).
		Set("completed_at", at).
		Set("total_production_seconds", totalSeconds).
		Set("updated_at", at).
		Where(sq.Eq{"id": serviceID, "completed": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: build query: %w", op, err)
	}
	return c.guardedUpdate(ctx, op, query, args)
}

func (c *conn) StartServicePreparation(ctx context.Context, serviceID string, at time.Time) (bool, error) {
	const op = "storage.sqlstore.StartServicePreparation"

	query, args, err := c.builder.Update("services").
		Set("preparation_started_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": serviceID, "preparation_started_at": nil}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: build query: %w", op, err)
	}
	return c.guardedUpdate(ctx, op, query, args)
}

func (c *conn) FinishServicePreparation(ctx context.Context, serviceID string, at time.Time, seconds int64) (bool, error) {
	const op = "storage.sqlstore.FinishServicePreparation"

	query, args, err := c.builder.Update("services").
		Set("preparation_finished_at", at).
		Set("preparation_seconds", seconds).
		Set("updated_at", at).
		Where(sq.Eq{"id": serviceID, "preparation_finished_at": nil}).
		Where(sq.NotEq{"preparation_started_at": nil}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: build query: %w", op, err)
	}
	return c.guardedUpdate(ctx, op, query, args)
}

func (c *conn) guardedUpdate(ctx context.Context, op, query string, args []interface{}) (bool, error) {
	res, err := c.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(res); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// PieceProgress returns planned and produced quantity per piece of a service.
func (c *conn) PieceProgress(ctx context.Context, serviceID string) ([]storage.PieceProgress, error) {
	const op = "storage.sqlstore.PieceProgress"

	query, args, err := c.builder.
		Select("p.id AS piece_id", "p.planned_quantity AS planned", c.sum("pc.quantity")+" AS produced").
		From("pieces p").
		LeftJoin("production_counts pc ON pc.piece_id = p.id").
		Where(sq.Eq{"p.service_id": serviceID}).
		GroupBy("p.id", "p.planned_quantity").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}

	var progress []storage.PieceProgress
	if err := sqlx.SelectContext(ctx, c.q, &progress, query, args...); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return progress, nil
}
