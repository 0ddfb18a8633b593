package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"casting-tracker/internal/storage"
	"casting-tracker/internal/tracking"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

func Created(w http.ResponseWriter, r *http.Request, v any) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, v)
}

// StatusOf maps tracking and storage errors to an HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, tracking.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, tracking.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracking.ErrInvalidState),
		errors.Is(err, tracking.ErrConflict),
		errors.Is(err, storage.ErrExists),
		errors.Is(err, storage.ErrInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err as a JSON error. what names the entity in storage
// messages, e.g. "operator" gives "operator not found". Server errors are
// logged with the request id and hidden from the client.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, op, what string, err error) {
	status := StatusOf(err)

	var msg string
	var te *tracking.Error
	switch {
	case errors.As(err, &te):
		msg = te.Message
	case errors.Is(err, storage.ErrNotFound):
		msg = what + " not found"
	case errors.Is(err, storage.ErrExists):
		msg = what + " already exists"
	case errors.Is(err, storage.ErrInUse):
		msg = what + " is still referenced"
	default:
		msg = "internal error"
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
	} else {
		log.Debug("request rejected", slog.String("op", op), slog.String("error", err.Error()))
	}

	Error(w, r, status, msg)
}
