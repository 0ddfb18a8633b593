package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/constants"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type OperatorDeleter interface {
	GetOperator(ctx context.Context, id string) (*storage.Operator, error)
	DeleteOperator(ctx context.Context, id string) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// DeleteOperator refuses operators that still have sessions or production
// counts with 409.
func DeleteOperator(log *slog.Logger, operators OperatorDeleter, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.DeleteOperator"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, err := operators.GetOperator(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		if err := operators.DeleteOperator(ctx, id); err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionDelete,
			Entity:   constants.EntityOperator,
			EntityID: id,
			Before:   before,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
