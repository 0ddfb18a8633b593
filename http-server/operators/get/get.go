package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/storage"
)

type OperatorProvider interface {
	ListOperators(ctx context.Context) ([]storage.Operator, error)
	GetOperator(ctx context.Context, id string) (*storage.Operator, error)
	GetOperatorByCode(ctx context.Context, code string) (*storage.Operator, error)
}

func GetOperators(log *slog.Logger, operators OperatorProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.GetOperators"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := operators.ListOperators(ctx)
		if err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		render.JSON(w, r, list)
	}
}

func GetOperator(log *slog.Logger, operators OperatorProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.GetOperator"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		o, err := operators.GetOperator(ctx, chi.URLParam(r, "id"))
		if err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		render.JSON(w, r, o)
	}
}

// GetOperatorByCode is the floor login: operators identify with their
// four digit code.
func GetOperatorByCode(log *slog.Logger, operators OperatorProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operators.GetOperatorByCode"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		o, err := operators.GetOperatorByCode(ctx, chi.URLParam(r, "code"))
		if err != nil {
			resp.Fail(w, r, log, op, "operator", err)
			return
		}

		render.JSON(w, r, o)
	}
}
