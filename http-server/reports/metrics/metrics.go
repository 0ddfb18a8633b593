package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/service/report"
)

type RankingProvider interface {
	Ranking(ctx context.Context, q report.RankingQuery) (*report.Ranking, error)
}

// GetMetrics ranks operators by produced quantity over a period or an
// explicit date range.
func GetMetrics(log *slog.Logger, ranking RankingProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GetMetrics"

		q := report.RankingQuery{
			OperatorID: r.URL.Query().Get("operator_id"),
			Period:     r.URL.Query().Get("period"),
		}

		var err error
		if q.StartDate, err = request.Date(r, "start_date"); err != nil {
			resp.Fail(w, r, log, op, "metrics", err)
			return
		}
		if q.EndDate, err = request.Date(r, "end_date"); err != nil {
			resp.Fail(w, r, log, op, "metrics", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := ranking.Ranking(ctx, q)
		if errors.Is(err, report.ErrInvalidPeriod) {
			resp.Error(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			resp.Fail(w, r, log, op, "metrics", err)
			return
		}

		render.JSON(w, r, res)
	}
}
