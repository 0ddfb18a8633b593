package completion

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/tracking"
)

type CompletionEvaluator interface {
	EvaluateCompletion(ctx context.Context, serviceID string) (*tracking.Completion, error)
}

// EvaluateCompletion re-checks whether a service has produced its planned
// quantity, e.g. after planned quantities were edited.
func EvaluateCompletion(log *slog.Logger, evaluator CompletionEvaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.EvaluateCompletion"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		c, err := evaluator.EvaluateCompletion(ctx, chi.URLParam(r, "id"))
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		render.JSON(w, r, c)
	}
}
