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

type ServiceUpdater interface {
	GetServiceWithPieces(ctx context.Context, id string) (*storage.Service, error)
	UpdateService(ctx context.Context, id string, upd storage.ServiceUpdate, at time.Time) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Request struct {
	Client                 *string    `json:"client" validate:"omitnil,min=1"`
	Description            *string    `json:"description" validate:"omitnil,min=1"`
	Notes                  *string    `json:"notes"`
	PlannedPreparationDate *time.Time `json:"planned_preparation_date"`
	Active                 *bool      `json:"active"`
	ScrapValue             *float64   `json:"scrap_value"`
}

// UpdateService applies a partial update. Completion and preparation
// fields cannot be changed here.
func UpdateService(log *slog.Logger, services ServiceUpdater, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.UpdateService"

		id := chi.URLParam(r, "id")

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, err := services.GetServiceWithPieces(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		err = services.UpdateService(ctx, id, storage.ServiceUpdate{
			Client:                 req.Client,
			Description:            req.Description,
			Notes:                  req.Notes,
			PlannedPreparationDate: req.PlannedPreparationDate,
			Active:                 req.Active,
			ScrapValue:             req.ScrapValue,
		}, time.Now().UTC())
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		after, err := services.GetServiceWithPieces(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionUpdate,
			Entity:   constants.EntityService,
			EntityID: id,
			Before:   before,
			After:    after,
		})

		render.JSON(w, r, after)
	}
}
