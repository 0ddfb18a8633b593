package tracking

import (
	"context"
	"time"

	"casting-tracker/internal/constants"
	"casting-tracker/internal/events"
	"casting-tracker/internal/storage"
)

// Completion reports the progress of a service after an evaluation.
type Completion struct {
	ServiceID              string     `json:"service_id"`
	Planned                int64      `json:"planned"`
	Produced               int64      `json:"produced"`
	Completed              bool       `json:"completed"`
	JustCompleted          bool       `json:"just_completed"`
	CompletedAt            *time.Time `json:"completed_at"`
	TotalProductionSeconds *int64     `json:"total_production_seconds"`
}

// Satisfied sums planned and produced quantities over all pieces and reports
// whether production has caught up. Over-production counts as satisfied.
func Satisfied(progress []storage.PieceProgress) (planned, produced int64, ok bool) {
	for _, p := range progress {
		planned += p.Planned
		produced += p.Produced
	}
	return planned, produced, produced >= planned
}

// evaluate flips the service to completed once all pieces are produced.
// The guarded update makes a second evaluation a no-op.
func (t *Tracker) evaluate(ctx context.Context, tx Tx, serviceID string) (*Completion, error) {
	svc, err := tx.GetService(ctx, serviceID)
	if err != nil {
		return nil, translate(err, "service")
	}

	progress, err := tx.PieceProgress(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	planned, produced, ok := Satisfied(progress)
	c := &Completion{
		ServiceID:              serviceID,
		Planned:                planned,
		Produced:               produced,
		Completed:              svc.Completed,
		CompletedAt:            svc.CompletedAt,
		TotalProductionSeconds: svc.TotalProductionSeconds,
	}
	if svc.Completed || !ok {
		return c, nil
	}

	sessions, err := tx.ServiceSessions(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	now := t.now()
	total := TotalSeconds(sessions, now)

	updated, err := tx.CompleteService(ctx, serviceID, now, total)
	if err != nil {
		return nil, err
	}
	if !updated {
		svc, err = tx.GetService(ctx, serviceID)
		if err != nil {
			return nil, translate(err, "service")
		}
		c.Completed, c.CompletedAt, c.TotalProductionSeconds = svc.Completed, svc.CompletedAt, svc.TotalProductionSeconds
		return c, nil
	}

	c.Completed = true
	c.JustCompleted = true
	c.CompletedAt = &now
	c.TotalProductionSeconds = &total
	return c, nil
}

// EvaluateCompletion re-runs the completion check for a service.
func (t *Tracker) EvaluateCompletion(ctx context.Context, serviceID string) (*Completion, error) {
	if err := requireID(serviceID, "service_id"); err != nil {
		return nil, err
	}

	var c *Completion
	err := t.store.RunInTx(ctx, func(tx Tx) error {
		var err error
		c, err = t.evaluate(ctx, tx, serviceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	t.publish(ctx, t.completionEvents(c)...)
	return c, nil
}

func (t *Tracker) completionEvents(c *Completion) []events.Event {
	if c == nil || !c.JustCompleted {
		return nil
	}
	return []events.Event{{
		Type:      constants.EventServiceCompleted,
		ServiceID: c.ServiceID,
		At:        *c.CompletedAt,
	}}
}
