package save

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/auth"
	"casting-tracker/internal/constants"
	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type UserCreator interface {
	CreateUser(ctx context.Context, u *storage.User) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

type Request struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func SaveUser(log *slog.Logger, users UserCreator, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.SaveUser"

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		now := time.Now().UTC()
		u := &storage.User{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        strings.ToLower(req.Email),
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := users.CreateUser(ctx, u); err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionCreate,
			Entity:   constants.EntityUser,
			EntityID: u.ID,
			After:    u,
		})

		resp.Created(w, r, u)
	}
}
