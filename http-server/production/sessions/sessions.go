package sessions

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"casting-tracker/internal/constants"
	"casting-tracker/internal/lib/api/request"
	resp "casting-tracker/internal/lib/api/response"
	"casting-tracker/internal/tracking"
)

type SessionTracker interface {
	StartSession(ctx context.Context, operatorID, serviceID string) (*tracking.SessionView, error)
	PauseSession(ctx context.Context, operatorID, serviceID string) (*tracking.SessionView, error)
	ResumeSession(ctx context.Context, operatorID, serviceID string) (*tracking.SessionView, error)
	EndSession(ctx context.Context, operatorID, serviceID string) (*tracking.SessionView, error)
	CurrentSession(ctx context.Context, operatorID, serviceID string) (*tracking.SessionView, error)
}

type Request struct {
	OperatorID string `json:"operator_id"`
	ServiceID  string `json:"service_id"`
	Action     string `json:"action" validate:"required,oneof=start pause resume end"`
}

// ChangeSession moves the operator's work session on a service through
// start, pause, resume and end.
func ChangeSession(log *slog.Logger, tracker SessionTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.ChangeSession"

		var req Request
		if err := request.Decode(r, &req); err != nil {
			resp.Fail(w, r, log, op, "session", err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var (
			view *tracking.SessionView
			err  error
		)
		switch req.Action {
		case constants.SessionActionStart:
			view, err = tracker.StartSession(ctx, req.OperatorID, req.ServiceID)
		case constants.SessionActionPause:
			view, err = tracker.PauseSession(ctx, req.OperatorID, req.ServiceID)
		case constants.SessionActionResume:
			view, err = tracker.ResumeSession(ctx, req.OperatorID, req.ServiceID)
		case constants.SessionActionEnd:
			view, err = tracker.EndSession(ctx, req.OperatorID, req.ServiceID)
		}
		if err != nil {
			resp.Fail(w, r, log, op, "session", err)
			return
		}

		log.Info("session changed",
			slog.String("action", req.Action),
			slog.String("operator_id", req.OperatorID),
			slog.String("service_id", req.ServiceID),
		)

		if req.Action == constants.SessionActionStart {
			resp.Created(w, r, view)
			return
		}
		render.JSON(w, r, view)
	}
}

// GetSession returns the latest session of the pair, or a not_started
// placeholder when the operator never worked on the service.
func GetSession(log *slog.Logger, tracker SessionTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.GetSession"

		q := r.URL.Query()

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		view, err := tracker.CurrentSession(ctx, q.Get("operator_id"), q.Get("service_id"))
		if err != nil {
			resp.Fail(w, r, log, op, "session", err)
			return
		}
		if view == nil {
			view = &tracking.SessionView{State: tracking.SessionNotStarted}
		}

		render.JSON(w, r, view)
	}
}
