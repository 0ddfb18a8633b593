package tracking

import (
	"context"
	"log/slog"
	"time"

	"casting-tracker/internal/events"
	"casting-tracker/internal/storage"
)

// Tx is the storage surface the tracking core needs inside one transaction.
type Tx interface {
	GetService(ctx context.Context, id string) (*storage.Service, error)
	GetPiece(ctx context.Context, id string) (*storage.Piece, error)
	GetOperator(ctx context.Context, id string) (*storage.Operator, error)

	CreateSession(ctx context.Context, s *storage.OperationSession) error
	LatestSession(ctx context.Context, operatorID, serviceID string) (*storage.OperationSession, error)
	UpdateSession(ctx context.Context, s *storage.OperationSession) error
	ServiceSessions(ctx context.Context, serviceID string) ([]storage.OperationSession, error)

	CreateProductionCount(ctx context.Context, c *storage.ProductionCount) error
	LatestOpenProduction(ctx context.Context, pieceID, operatorID string) (*storage.ProductionCount, error)
	CloseProduction(ctx context.Context, c *storage.ProductionCount) error
	PieceProgress(ctx context.Context, serviceID string) ([]storage.PieceProgress, error)

	CompleteService(ctx context.Context, serviceID string, at time.Time, totalSeconds int64) (bool, error)
	StartServicePreparation(ctx context.Context, serviceID string, at time.Time) (bool, error)
	FinishServicePreparation(ctx context.Context, serviceID string, at time.Time, seconds int64) (bool, error)
}

type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tracker runs the session, piece timer, preparation and completion state
// machines. Every operation is one transaction; events go out after commit.
type Tracker struct {
	store     Store
	log       *slog.Logger
	publisher events.Publisher
	now       func() time.Time
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(t *Tracker) { t.publisher = p }
}

func New(store Store, log *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		log:       log,
		publisher: events.Nop{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) publish(ctx context.Context, evs ...events.Event) {
	for _, e := range evs {
		t.log.Debug("tracking event", slog.String("type", e.Type), slog.String("service_id", e.ServiceID))
		t.publisher.Publish(ctx, e)
	}
}
