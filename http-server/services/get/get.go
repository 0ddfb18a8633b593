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
	"casting-tracker/internal/tracking"
)

type ServiceProvider interface {
	ListServices(ctx context.Context) ([]storage.Service, error)
	GetServiceWithPieces(ctx context.Context, id string) (*storage.Service, error)
}

type TimesProvider interface {
	ServiceTimes(ctx context.Context, serviceID string) (*tracking.CompleteTime, error)
}

func GetServices(log *slog.Logger, services ServiceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.GetServices"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := services.ListServices(ctx)
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		render.JSON(w, r, list)
	}
}

func GetService(log *slog.Logger, services ServiceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.GetService"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		svc, err := services.GetServiceWithPieces(ctx, chi.URLParam(r, "id"))
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		render.JSON(w, r, svc)
	}
}

// GetServiceTimes returns preparation, production and total seconds.
func GetServiceTimes(log *slog.Logger, times TimesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.GetServiceTimes"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ct, err := times.ServiceTimes(ctx, chi.URLParam(r, "id"))
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		render.JSON(w, r, ct)
	}
}
