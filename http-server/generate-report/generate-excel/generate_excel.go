package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter storage.ProductionFilter) ([]byte, error)
}

// GenerateReportExcel streams the time report as an XLSX attachment. It
// takes the same filters as the JSON time report.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GenerateReportExcel"

		filter, err := request.ProductionFilter(r)
		if err != nil {
			resp.Fail(w, r, log, op, "report", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			resp.Fail(w, r, log, op, "report", err)
			return
		}

		fileName := fmt.Sprintf("time_report_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		if _, err := w.Write(excelBytes); err != nil {
			log.Error("failed to write excel", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
