package totals

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type TotalsProvider interface {
	Totals(ctx context.Context, serviceID, operatorID string) ([]storage.PieceOperatorTotal, error)
}

// GetTotals returns produced quantities of a service grouped by piece and
// operator, optionally for one operator.
func GetTotals(log *slog.Logger, totals TotalsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.GetTotals"

		q := r.URL.Query()
		serviceID := q.Get("service_id")
		if serviceID == "" {
			resp.Error(w, r, http.StatusBadRequest, "service_id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := totals.Totals(ctx, serviceID, q.Get("operator_id"))
		if err != nil {
			resp.Fail(w, r, log, op, "service", err)
			return
		}

		render.JSON(w, r, list)
	}
}
