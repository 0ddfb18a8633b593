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

type UserProvider interface {
	ListUsers(ctx context.Context) ([]storage.User, error)
	GetUser(ctx context.Context, id string) (*storage.User, error)
}

func GetUsers(log *slog.Logger, users UserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.GetUsers"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := users.ListUsers(ctx)
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		render.JSON(w, r, list)
	}
}

func GetUser(log *slog.Logger, users UserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.GetUser"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		u, err := users.GetUser(ctx, chi.URLParam(r, "id"))
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		render.JSON(w, r, u)
	}
}
