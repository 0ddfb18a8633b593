package timer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"casting-tracker/internal/constants"
	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/tracking"
)

type PieceTimer interface {
	StartProduction(ctx context.Context, pieceID, operatorID string) (*tracking.ProductionResult, error)
	FinishProduction(ctx context.Context, pieceID, operatorID string) (*tracking.ProductionResult, error)
}

type Request struct {
	PieceID    string `json:"piece_id"`
	OperatorID string `json:"operator_id"`
	Action     string `json:"action" validate:"required,oneof=start finish"`
}

// ChangeTimer starts or finishes the operator's timed interval on a piece.
// Finishing records one produced unit and may complete the service.
func ChangeTimer(log *slog.Logger, timer PieceTimer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.ChangeTimer"

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "piece", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var (
			res *tracking.ProductionResult
			err error
		)
		switch req.Action {
		case constants.TimerActionStart:
			res, err = timer.StartProduction(ctx, req.PieceID, req.OperatorID)
		case constants.TimerActionFinish:
			res, err = timer.FinishProduction(ctx, req.PieceID, req.OperatorID)
		}
		if err != nil {
			resp.Fail(w, r, log, op, "piece", err)
			return
		}

		if res.Completion != nil && res.Completion.JustCompleted {
			log.Info("service completed", slog.String("service_id", res.Completion.ServiceID))
		}

		if req.Action == constants.TimerActionStart {
			resp.Created(w, r, res)
			return
		}
		render.JSON(w, r, res)
	}
}
