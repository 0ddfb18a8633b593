package preparation

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"casting-tracker/internal/constants"
	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/tracking"
)

type PreparationTracker interface {
	StartPreparation(ctx context.Context, serviceID string) (*tracking.PreparationStatus, error)
	FinishPreparation(ctx context.Context, serviceID string) (*tracking.PreparationStatus, error)
	PreparationStatus(ctx context.Context, serviceID string) (*tracking.PreparationStatus, error)
}

type Request struct {
	ServiceID string `json:"service_id"`
	Action    string `json:"action" validate:"required,oneof=start finish"`
}

func ChangePreparation(log *slog.Logger, tracker PreparationTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.ChangePreparation"

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var (
			status *tracking.PreparationStatus
			err    error
		)
		switch req.Action {
		case constants.TimerActionStart:
			status, err = tracker.StartPreparation(ctx, req.ServiceID)
		case constants.TimerActionFinish:
			status, err = tracker.FinishPreparation(ctx, req.ServiceID)
		}
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		render.JSON(w, r, status)
	}
}

func GetPreparation(log *slog.Logger, tracker PreparationTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.GetPreparation"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status, err := tracker.PreparationStatus(ctx, r.URL.Query().Get("service_id"))
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		render.JSON(w, r, status)
	}
}
