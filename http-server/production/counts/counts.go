package counts

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/tracking"
)

type IncrementRecorder interface {
	RecordIncrement(ctx context.Context, pieceID, operatorID string, quantity int64) (*tracking.ProductionResult, error)
}

type Request struct {
	PieceID    string `json:"piece_id"`
	OperatorID string `json:"operator_id"`
	Quantity   *int64 `json:"quantity"`
}

// SaveCount records produced units without a timed interval. quantity
// defaults to 1.
func SaveCount(log *slog.Logger, recorder IncrementRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.SaveCount"

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "piece", err)
			return
		}

		qty := int64(1)
		if req.Quantity != nil {
			qty = *req.Quantity
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := recorder.RecordIncrement(ctx, req.PieceID, req.OperatorID, qty)
		if err != nil {
			resp.Fail(w, r, log, op, "piece", err)
			return
		}

		resp.Created(w, r, res)
	}
}
