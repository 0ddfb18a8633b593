package time_report

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/service/report"
	"casting-tracker/internal/storage"
)

type TimeReporter interface {
	TimeReport(ctx context.Context, f storage.ProductionFilter) (*report.TimeReport, error)
}

func GetTimeReport(log *slog.Logger, reporter TimeReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GetTimeReport"

		filter, err := request.ProductionFilter(r)
		if err != nil {
			resp.Fail(w, r, log, op, "report", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rep, err := reporter.TimeReport(ctx, filter)
		if err != nil {
			resp.Fail(w, r, log, op, "report", err)
			return
		}

		render.JSON(w, r, rep)
	}
}
