package tracking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"casting-tracker/internal/constants"
	"casting-tracker/internal/events"
	"casting-tracker/internal/storage"
)

type SessionState int

const (
	SessionNotStarted SessionState = iota
	SessionRunning
	SessionPaused
	SessionEnded
)

func (s SessionState) String() string {
	switch s {
	case SessionRunning:
		return "running"
	case SessionPaused:
		return "paused"
	case SessionEnded:
		return "ended"
	default:
		return "not_started"
	}
}

func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StateOf derives the state from the session row. A nil session has not started.
func StateOf(s *storage.OperationSession) SessionState {
	switch {
	case s == nil:
		return SessionNotStarted
	case s.EndedAt != nil:
		return SessionEnded
	case s.PauseStartedAt != nil && s.PauseEndedAt == nil:
		return SessionPaused
	default:
		return SessionRunning
	}
}

type SessionView struct {
	*storage.OperationSession
	State          SessionState `json:"state"`
	ElapsedSeconds int64        `json:"elapsed_seconds"`
}

func (t *Tracker) view(s *storage.OperationSession) *SessionView {
	return &SessionView{
		OperationSession: s,
		State:            StateOf(s),
		ElapsedSeconds:   SessionSeconds(*s, t.now()),
	}
}

// StartSession opens a work session for the operator on the service.
// A second start while one is still open is a conflict.
func (t *Tracker) StartSession(ctx context.Context, operatorID, serviceID string) (*SessionView, error) {
	if err := requireIDs("operator_id", operatorID, "service_id", serviceID); err != nil {
		return nil, err
	}

	var session *storage.OperationSession
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		if _, err := tx.GetOperator(ctx, operatorID); err != nil {
			return translate(err, "operator")
		}
		if _, err := tx.GetService(ctx, serviceID); err != nil {
			return translate(err, "service")
		}

		latest, err := tx.LatestSession(ctx, operatorID, serviceID)
		switch {
		case err == nil && latest.EndedAt == nil:
			return newError(ErrConflict, "a session is already open for this operator and service")
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return err
		}

		now := t.now()
		session = &storage.OperationSession{
			ID:         uuid.NewString(),
			OperatorID: operatorID,
			ServiceID:  serviceID,
			StartedAt:  now,
			CreatedAt:  now,
		}
		if err := tx.CreateSession(ctx, session); err != nil {
			if errors.Is(err, storage.ErrExists) {
				return newError(ErrConflict, "a session is already open for this operator and service")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.publish(ctx, t.sessionEvent(constants.EventSessionStart, session))
	return t.view(session), nil
}

func (t *Tracker) PauseSession(ctx context.Context, operatorID, serviceID string) (*SessionView, error) {
	return t.changeSession(ctx, operatorID, serviceID, constants.EventSessionPause, func(s *storage.OperationSession, now time.Time) {
		s.PauseStartedAt = &now
		s.PauseEndedAt = nil
	})
}

func (t *Tracker) ResumeSession(ctx context.Context, operatorID, serviceID string) (*SessionView, error) {
	return t.changeSession(ctx, operatorID, serviceID, constants.EventSessionResume, func(s *storage.OperationSession, now time.Time) {
		s.PauseEndedAt = &now
	})
}

func (t *Tracker) EndSession(ctx context.Context, operatorID, serviceID string) (*SessionView, error) {
	return t.changeSession(ctx, operatorID, serviceID, constants.EventSessionEnd, func(s *storage.OperationSession, now time.Time) {
		s.EndedAt = &now
	})
}

// changeSession applies mutate to the most recent session of the pair,
// whatever its state.
func (t *Tracker) changeSession(
	ctx context.Context,
	operatorID, serviceID, eventType string,
	mutate func(s *storage.OperationSession, now time.Time),
) (*SessionView, error) {
	if err := requireIDs("operator_id", operatorID, "service_id", serviceID); err != nil {
		return nil, err
	}

	var session *storage.OperationSession
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		var err error
		session, err = tx.LatestSession(ctx, operatorID, serviceID)
		if err != nil {
			return translate(err, "session")
		}

		mutate(session, t.now())

		if err := tx.UpdateSession(ctx, session); err != nil {
			return translate(err, "session")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.publish(ctx, t.sessionEvent(eventType, session))
	return t.view(session), nil
}

// CurrentSession returns the most recent session of the pair, or nil.
func (t *Tracker) CurrentSession(ctx context.Context, operatorID, serviceID string) (*SessionView, error) {
	if err := requireIDs("operator_id", operatorID, "service_id", serviceID); err != nil {
		return nil, err
	}

	var session *storage.OperationSession
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		var err error
		session, err = tx.LatestSession(ctx, operatorID, serviceID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil || session == nil {
		return nil, err
	}
	return t.view(session), nil
}

func (t *Tracker) sessionEvent(eventType string, s *storage.OperationSession) events.Event {
	return events.Event{
		Type:       eventType,
		ServiceID:  s.ServiceID,
		OperatorID: s.OperatorID,
		RecordID:   s.ID,
		At:         t.now(),
	}
}
