package events

import (
	"context"
	"time"
)

// Event is a notification about a committed change in the tracking core.
type Event struct {
	Type       string
	ServiceID  string
	PieceID    string
	OperatorID string
	RecordID   string
	At         time.Time
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop drops every event. It is used when no Redis URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
