package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"casting-tracker/internal/audit"
	"casting-tracker/internal/constants"
	resp "casting-tracker/internal/lib/api/response"
	authmw "casting-tracker/internal/middleware/auth"
	"casting-tracker/internal/storage"
)

type UserDeleter interface {
	GetUser(ctx context.Context, id string) (*storage.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// DeleteUser removes an administrator. Deleting the signed-in account is refused.
func DeleteUser(log *slog.Logger, users UserDeleter, auditor Auditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.DeleteUser"

		id := chi.URLParam(r, "id")
		if id == authmw.UserID(r.Context()) {
			resp.Error(w, r, http.StatusConflict, "cannot delete the signed-in user")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		before, err := users.GetUser(ctx, id)
		if err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		if err := users.DeleteUser(ctx, id); err != nil {
			resp.Fail(w, r, log, op, "user", err)
			return
		}

		auditor.Record(r.Context(), audit.Entry{
			Action:   constants.ActionDelete,
			Entity:   constants.EntityUser,
			EntityID: id,
			Before:   before,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
