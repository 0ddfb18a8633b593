package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type AuditProvider interface {
	ListAuditLogs(ctx context.Context, f storage.AuditFilter) ([]storage.AuditLog, error)
}

// GetAuditLogs lists audit entries, newest first, optionally for one entity.
func GetAuditLogs(log *slog.Logger, logs AuditProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.audit.GetAuditLogs"

		q := r.URL.Query()
		f := storage.AuditFilter{Entity: q.Get("entity")}
		if raw := q.Get("limit"); raw != "" {
			limit, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || limit == 0 {
				resp.Error(w, r, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			f.Limit = limit
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := logs.ListAuditLogs(ctx, f)
		if err != nil {
			resp.Fail(w, r, log, op, "audit log", err)
			return
		}

		render.JSON(w, r, list)
	}
}
