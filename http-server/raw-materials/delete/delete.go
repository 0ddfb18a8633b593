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

type RawMaterialDeleter interface {
	GetRawMaterial(ctx context.Context, id string) (*storage.RawMaterial, error)
	DeleteRawMaterial(ctx context.Context, id string) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

func DeleteRawMaterial(log *slog.Logger, materials RawMaterialDeleter, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rawMaterials.DeleteRawMaterial"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, err := materials.GetRawMaterial(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		if err := materials.DeleteRawMaterial(ctx, id); err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionDelete,
			Entity:   constants.EntityRawMaterial,
			EntityID: id,
			Before:   before,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
