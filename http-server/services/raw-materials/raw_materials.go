package raw_materials

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

type LinkProvider interface {
	ListServiceRawMaterials(ctx context.Context, serviceID string) ([]storage.ServiceRawMaterial, error)
	UpsertServiceRawMaterial(ctx context.Context, serviceID, rawMaterialID string, quantity int64, at time.Time) (before, after *storage.ServiceRawMaterial, err error)
	DeleteServiceRawMaterial(ctx context.Context, serviceID, rawMaterialID string) (*storage.ServiceRawMaterial, error)
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Request struct {
	RawMaterialID string `json:"raw_material_id" validate:"required"`
	Quantity      int64  `json:"quantity" validate:"min=1"`
}

func GetServiceRawMaterials(log *slog.Logger, links LinkProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.GetServiceRawMaterials"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := links.ListServiceRawMaterials(ctx, chi.URLParam(r, "id"))
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		render.JSON(w, r, list)
	}
}

// SaveServiceRawMaterial links a raw material to the service. Adding the
// same material again replaces its quantity.
func SaveServiceRawMaterial(log *slog.Logger, links LinkProvider, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.SaveServiceRawMaterial"

		serviceID := chi.URLParam(r, "id")

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "service raw material", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, after, err := links.UpsertServiceRawMaterial(ctx, serviceID, req.RawMaterialID, req.Quantity, time.Now().UTC())
		if err != nil {
			resp.Fail(w, r, log, op, "service raw material", err)
			return
		}

		entry := audit.Entry{
			Action:   constants.ActionCreate,
			Entity:   constants.EntityServiceRawMaterial,
			EntityID: after.ID,
			After:    after,
		}
		if before != nil {
			entry.Action = constants.ActionUpdate
			entry.Before = before
		}
		auditor.Record(r.Context(), entry)

		if before == nil {
			resp.Created(w, r, after)
			return
		}
		render.JSON(w, r, after)
	}
}

func DeleteServiceRawMaterial(log *slog.Logger, links LinkProvider, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.DeleteServiceRawMaterial"

		rawMaterialID := r.URL.Query().Get("raw_material_id")
		if rawMaterialID == "" {
			resp.Error(w, r, http.StatusBadRequest, "raw_material_id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		removed, err := links.DeleteServiceRawMaterial(ctx, chi.URLParam(r, "id"), rawMaterialID)
		if err != nil {
			resp.Fail(w, r, log, op, "service raw material", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionDelete,
			Entity:   constants.EntityServiceRawMaterial,
			EntityID: removed.ID,
			Before:   removed,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
