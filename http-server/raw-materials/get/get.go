package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type RawMaterialProvider interface {
	ListRawMaterials(ctx context.Context) ([]storage.RawMaterial, error)
	GetRawMaterial(ctx context.Context, id string) (*storage.RawMaterial, error)
}

func GetRawMaterials(log *slog.Logger, materials RawMaterialProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rawMaterials.GetRawMaterials"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := materials.ListRawMaterials(ctx)
		if err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		render.JSON(w, r, list)
	}
}

// GetRawMaterial returns the material with the services that use it.
func GetRawMaterial(log *slog.Logger, materials RawMaterialProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rawMaterials.GetRawMaterial"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rm, err := materials.GetRawMaterial(ctx, chi.URLParam(r, "id"))
		if err != nil {
			resp.Fail(w, r, log, op, "raw material", err)
			return
		}

		render.JSON(w, r, rm)
	}
}
