package tracking

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"casting-tracker/internal/constants"
	"casting-tracker/internal/events"
	"casting-tracker/internal/storage"
)

type ProductionResult struct {
	Count      *storage.ProductionCount `json:"count"`
	Completion *Completion              `json:"completion,omitempty"`
}

// StartProduction opens a timed interval for the operator on the piece.
// Other operators may have their own open interval on the same piece.
func (t *Tracker) StartProduction(ctx context.Context, pieceID, operatorID string) (*ProductionResult, error) {
	if err := requireIDs("piece_id", pieceID, "operator_id", operatorID); err != nil {
		return nil, err
	}

	var (
		count *storage.ProductionCount
		piece *storage.Piece
	)
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		var err error
		if piece, err = tx.GetPiece(ctx, pieceID); err != nil {
			return translate(err, "piece")
		}
		if _, err = tx.GetOperator(ctx, operatorID); err != nil {
			return translate(err, "operator")
		}

		_, err = tx.LatestOpenProduction(ctx, pieceID, operatorID)
		switch {
		case err == nil:
			return newError(ErrConflict, "production already in progress for this piece and operator")
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		now := t.now()
		count = &storage.ProductionCount{
			ID:         uuid.NewString(),
			PieceID:    pieceID,
			OperatorID: operatorID,
			StartedAt:  &now,
			CreatedAt:  now,
		}
		if err := tx.CreateProductionCount(ctx, count); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return newError(ErrConflict, "production already in progress for this piece and operator")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.publish(ctx, t.productionEvent(constants.EventProductionStart, piece, count))
	return &ProductionResult{Count: count}, nil
}

// FinishProduction closes the most recent open interval of the pair, books
// one produced unit and evaluates completion in the same transaction.
func (t *Tracker) FinishProduction(ctx context.Context, pieceID, operatorID string) (*ProductionResult, error) {
	if err := requireIDs("piece_id", pieceID, "operator_id", operatorID); err != nil {
		return nil, err
	}

	var (
		count      *storage.ProductionCount
		piece      *storage.Piece
		completion *Completion
	)
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		var err error
		count, err = tx.LatestOpenProduction(ctx, pieceID, operatorID)
		if errors.Is(err, storage.ErrNotFound) {
			return newError(ErrNotFound, "no open production in progress")
		}
		if err != nil {
			return err
		}

		if piece, err = tx.GetPiece(ctx, pieceID); err != nil {
			return translate(err, "piece")
		}

		now := t.now()
		elapsed := IntervalSeconds(*count.StartedAt, now)
		count.FinishedAt = &now
		count.ElapsedSeconds = &elapsed
		count.Quantity = 1

		if err := tx.CloseProduction(ctx, count); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return newError(ErrNotFound, "no open production in progress")
			}
			return err
		}

		completion, err = t.evaluate(ctx, tx, piece.ServiceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.publish(ctx, t.productionEvent(constants.EventProductionFinish, piece, count))
	t.publish(ctx, t.completionEvents(completion)...)
	return &ProductionResult{Count: count, Completion: completion}, nil
}

// RecordIncrement books quantity units without an interval.
func (t *Tracker) RecordIncrement(ctx context.Context, pieceID, operatorID string, quantity int64) (*ProductionResult, error) {
	if err := requireIDs("piece_id", pieceID, "operator_id", operatorID); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, newError(ErrValidation, "quantity must be at least 1")
	}

	var (
		count      *storage.ProductionCount
		piece      *storage.Piece
		completion *Completion
	)
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		var err error
		if piece, err = tx.GetPiece(ctx, pieceID); err != nil {
			return translate(err, "piece")
		}
		if _, err = tx.GetOperator(ctx, operatorID); err != nil {
			return translate(err, "operator")
		}

		count = &storage.ProductionCount{
			ID:         uuid.NewString(),
			PieceID:    pieceID,
			OperatorID: operatorID,
			Quantity:   quantity,
			CreatedAt:  t.now(),
		}
		if err := tx.CreateProductionCount(ctx, count); err != nil {
			return err
		}

		completion, err = t.evaluate(ctx, tx, piece.ServiceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.publish(ctx, t.productionEvent(constants.EventProductionIncrease, piece, count))
	t.publish(ctx, t.completionEvents(completion)...)
	return &ProductionResult{Count: count, Completion: completion}, nil
}

func (t *Tracker) productionEvent(eventType string, piece *storage.Piece, c *storage.ProductionCount) events.Event {
	return events.Event{
		Type:       eventType,
		ServiceID:  piece.ServiceID,
		PieceID:    c.PieceID,
		OperatorID: c.OperatorID,
		RecordID:   c.ID,
		At:         t.now(),
	}
}
