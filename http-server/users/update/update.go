package update

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/auth"
	"casting-tracker/internal/constants"
	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type UserUpdater interface {
	GetUser(ctx context.Context, id string) (*storage.User, error)
	UpdateUser(ctx context.Context, id string, upd storage.UserUpdate, at time.Time) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Request struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6"`
}

func UpdateUser(log *slog.Logger, users UserUpdater, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.UpdateUser"

		id := chi.URLParam(r, "id")

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		upd := storage.UserUpdate{Name: req.Name}
		if req.Email != nil {
			email := strings.ToLower(*req.Email)
			upd.Email = &email
		}
		if req.Password != nil {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				resp.Fail(w, r, log, op, "user", err)
				return
			}
			upd.PasswordHash = &hash
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, err := users.GetUser(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		if err := users.UpdateUser(ctx, id, upd, time.Now().UTC()); err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		after, err := users.GetUser(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionUpdate,
			Entity:   constants.EntityUser,
			EntityID: id,
			Before:   before,
			After:    after,
		})

		render.JSON(w, r, after)
	}
}
