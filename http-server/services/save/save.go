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

type ServiceCreator interface {
	CreateService(ctx context.Context, svc *storage.Service) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Piece struct {
	Name            string `json:"name" validate:"required"`
	PlannedQuantity int64  `json:"planned_quantity" validate:"gte=0"`
	MetalType       string `json:"metal_type" validate:"required"`
	MaterialBrand   string `json:"material_brand" validate:"required"`
}

type Request struct {
	Client                 string    `json:"client" validate:"required"`
	Description            string    `json:"description" validate:"required"`
	Notes                  *string   `json:"notes"`
	PlannedPreparationDate time.Time `json:"planned_preparation_date" validate:"required"`
	Active                 *bool     `json:"active"`
	ScrapValue             *float64  `json:"scrap_value"`
	Pieces                 []Piece   `json:"pieces" validate:"dive"`
}

func SaveService(log *slog.Logger, services ServiceCreator, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.SaveService"

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		now := time.Now().UTC()
		svc := &storage.Service{
			ID:                     uuid.NewString(),
			Client:                 req.Client,
			Description:            req.Description,
			Notes:                  req.Notes,
			PlannedPreparationDate: req.PlannedPreparationDate,
			Active:                 req.Active == nil || *req.Active,
			ScrapValue:             req.ScrapValue,
			CreatedAt:              now,
			UpdatedAt:              now,
			Pieces:                 make([]storage.Piece, 0, len(req.Pieces)),
		}
		for _, p := range req.Pieces {
			svc.Pieces = append(svc.Pieces, storage.Piece{
				ID:              uuid.NewString(),
				ServiceID:       svc.ID,
				Name:            p.Name,
				PlannedQuantity: p.PlannedQuantity,
				MetalType:       p.MetalType,
				MaterialBrand:   p.MaterialBrand,
				CreatedAt:       now,
			})
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := services.CreateService(ctx, svc); err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionCreate,
			Entity:   constants.EntityService,
			EntityID: svc.ID,
			After:    svc,
		})

		log.Info("service created", slog.String("id", svc.ID), slog.Int("pieces", len(svc.Pieces)))
		resp.Created(w, r, svc)
	}
}
