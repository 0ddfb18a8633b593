package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/constants"
	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type OperatorCreator interface {
	CreateOperator(ctx context.Context, o *storage.Operator) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Request struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required,len=4,number"`
}

func SaveOperator(log *slog.Logger, operators OperatorCreator, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.SaveOperator"

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		now := time.Now().UTC()
		o := &storage.Operator{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Code:      req.Code,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := operators.CreateOperator(ctx, o); err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionCreate,
			Entity:   constants.EntityOperator,
			EntityID: o.ID,
			After:    o,
		})

		resp.Created(w, r, o)
	}
}
