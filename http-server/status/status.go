package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	resp "casting-tracker/internal/lib/api/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Status(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.status.Status"

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("database unreachable")
			resp.Error(w, r, http.StatusServiceUnavailable, "database unreachable")
			return
		}

		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
