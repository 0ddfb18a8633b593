package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/constants"
	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type OperatorUpdater interface {
	GetOperator(ctx context.Context, id string) (*storage.Operator, error)
	UpdateOperator(ctx context.Context, id string, upd storage.OperatorUpdate, at time.Time) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Request struct {
	Name *string `json:"name" validate:"omitnil,min=1"`
	Code *string `json:"code" validate:"omitnil,len=4,number"`
}

func UpdateOperator(log *slog.Logger, operators OperatorUpdater, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.UpdateOperator"

		id := chi.URLParam(r, "id")

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, err := operators.GetOperator(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		upd := storage.OperatorUpdate{Name: req.Name, Code: req.Code}
		if err := operators.UpdateOperator(ctx, id, upd, time.Now().UTC()); err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		after, err := operators.GetOperator(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionUpdate,
			Entity:   constants.EntityOperator,
			EntityID: id,
			Before:   before,
			After:    after,
		})

		render.JSON(w, r, after)
	}
}
