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

type RawMaterialCreator interface {
	CreateRawMaterial(ctx context.Context, rm *storage.RawMaterial) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Request struct {
	Name  string  `json:"name" validate:"required"`
	Value float64 `json:"value" validate:"gte=0"`
}

func SaveRawMaterial(log *slog.Logger, materials RawMaterialCreator, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rawMaterials.SaveRawMaterial"

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		now := time.Now().UTC()
		rm := &storage.RawMaterial{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Value:     req.Value,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := materials.CreateRawMaterial(ctx, rm); err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionCreate,
			Entity:   constants.EntityRawMaterial,
			EntityID: rm.ID,
			After:    rm,
		})

		resp.Created(w, r, rm)
	}
}
