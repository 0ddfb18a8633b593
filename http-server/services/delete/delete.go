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

type ServiceDeleter interface {
	GetServiceWithPieces(ctx context.Context, id string) (*storage.Service, error)
	DeleteService(ctx context.Context, id string) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// DeleteService removes a service together with its pieces, counts,
// sessions and raw material links.
func DeleteService(log *slog.Logger, services ServiceDeleter, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.DeleteService"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, err := services.GetServiceWithPieces(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		if err := services.DeleteService(ctx, id); err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionDelete,
			Entity:   constants.EntityService,
			EntityID: id,
			Before:   before,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
