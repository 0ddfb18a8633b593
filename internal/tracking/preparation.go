package tracking

import (
	"context"
	"time"

	"casting-tracker/internal/constants"
	"casting-tracker/internal/events"
	"casting-tracker/internal/storage"
)

type PreparationStatus struct {
	ServiceID  string     `json:"service_id"`
	Started    bool       `json:"started"`
	Finished   bool       `json:"finished"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Seconds    *int64     `json:"seconds"`
}

func statusOf(svc *storage.Service) *PreparationStatus {
	return &PreparationStatus{
		ServiceID:  svc.ID,
		Started:    svc.PreparationStartedAt != nil,
		Finished:   svc.PreparationFinishedAt != nil,
		StartedAt:  svc.PreparationStartedAt,
		FinishedAt: svc.PreparationFinishedAt,
		Seconds:    svc.PreparationSeconds,
	}
}

// StartPreparation starts the one-shot preparation timer of a service.
func (t *Tracker) StartPreparation(ctx context.Context, serviceID string) (*PreparationStatus, error) {
	if err := requireID(serviceID, "service_id"); err != nil {
		return nil, err
	}

	var status *PreparationStatus
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		svc, err := tx.GetService(ctx, serviceID)
		if err != nil {
			return translate(err, "service")
		}
		if svc.PreparationStartedAt != nil {
			return newError(ErrInvalidState, "preparation already started")
		}

		now := t.now()
		ok, err := tx.StartServicePreparation(ctx, serviceID, now)
		if err != nil {
			return err
		}
		if !ok {
			return newError(ErrInvalidState, "preparation already started")
		}

		svc.PreparationStartedAt = &now
		status = statusOf(svc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.publish(ctx, events.Event{Type: constants.EventPreparationStart, ServiceID: serviceID, At: *status.StartedAt})
	return status, nil
}

// FinishPreparation stops the preparation timer and stores its duration.
func (t *Tracker) FinishPreparation(ctx context.Context, serviceID string) (*PreparationStatus, error) {
	if err := requireID(serviceID, "service_id"); err != nil {
		return nil, err
	}

	var status *PreparationStatus
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		svc, err := tx.GetService(ctx, serviceID)
		if err != nil {
			return translate(err, "service")
		}
		if svc.PreparationStartedAt == nil {
			return newError(ErrInvalidState, "preparation not started")
		}
		if svc.PreparationFinishedAt != nil {
			return newError(ErrInvalidState, "preparation already finished")
		}

		now := t.now()
		seconds := IntervalSeconds(*svc.PreparationStartedAt, now)
		ok, err := tx.FinishServicePreparation(ctx, serviceID, now, seconds)
		if err != nil {
			return err
		}
		if !ok {
			return newError(ErrInvalidState, "preparation already finished")
		}

		svc.PreparationFinishedAt = &now
		svc.PreparationSeconds = &seconds
		status = statusOf(svc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.publish(ctx, events.Event{Type: constants.EventPreparationFinish, ServiceID: serviceID, At: *status.FinishedAt})
	return status, nil
}

func (t *Tracker) PreparationStatus(ctx context.Context, serviceID string) (*PreparationStatus, error) {
	if err := requireID(serviceID, "service_id"); err != nil {
		return nil, err
	}

	var status *PreparationStatus
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		svc, err := tx.GetService(ctx, serviceID)
		if err != nil {
			return translate(err, "service")
		}
		status = statusOf(svc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// ServiceTimes returns preparation, production and total time of a service.
func (t *Tracker) ServiceTimes(ctx context.Context, serviceID string) (*CompleteTime, error) {
	if err := requireID(serviceID, "service_id"); err != nil {
		return nil, err
	}

	var ct CompleteTime
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		svc, err := tx.GetService(ctx, serviceID)
		if err != nil {
			return translate(err, "service")
		}
		sessions, err := tx.ServiceSessions(ctx, serviceID)
		if err != nil {
			return err
		}

		var prep int64
		if svc.PreparationSeconds != nil {
			prep = *svc.PreparationSeconds
		}
		ct = ComputeCompleteTime(sessions, prep, t.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ct, nil
}
