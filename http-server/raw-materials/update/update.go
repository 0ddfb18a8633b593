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

type RawMaterialUpdater interface {
	GetRawMaterial(ctx context.Context, id string) (*storage.RawMaterial, error)
	UpdateRawMaterial(ctx context.Context, id string, upd storage.RawMaterialUpdate, at time.Time) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Request struct {
	Name  *string  `json:"name" validate:"omitnil,min=1"`
	Value *float64 `json:"value" validate:"omitnil,gte=0"`
}

func UpdateRawMaterial(log *slog.Logger, materials RawMaterialUpdater, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rawMaterials.UpdateRawMaterial"

		id := chi.URLParam(r, "id")

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, err := materials.GetRawMaterial(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		upd := storage.RawMaterialUpdate{Name: req.Name, Value: req.Value}
		if err := materials.UpdateRawMaterial(ctx, id, upd, time.Now().UTC()); err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		after, err := materials.GetRawMaterial(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionUpdate,
			Entity:   constants.EntityRawMaterial,
			EntityID: id,
			Before:   before,
			After:    after,
		})

		render.JSON(w, r, after)
	}
}
