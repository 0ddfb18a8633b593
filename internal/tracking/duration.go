package tracking

import (
	"time"

	"casting-tracker/internal/storage"
)

// IntervalSeconds is the number of whole seconds from start to end.
// Reversed intervals yield zero.
func IntervalSeconds(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// SessionSeconds is the worked time of a session: from start to end (or now
// while running) minus the pause window once it has both ends.
func SessionSeconds(s storage.OperationSession, now time.Time) int64 {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}

	gross := IntervalSeconds(s.StartedAt, end)

	var paused int64
	if s.PauseStartedAt != nil && s.PauseEndedAt != nil {
		paused = IntervalSeconds(*s.PauseStartedAt, *s.PauseEndedAt)
	}

	if net := gross - paused; net > 0 {
		return net
	}
	return 0
}

// TotalSeconds sums SessionSeconds over every session.
func TotalSeconds(sessions []storage.OperationSession, now time.Time) int64 {
	var total int64
	for _, s := range sessions {
		total += SessionSeconds(s, now)
	}
	return total
}

type CompleteTime struct {
	PreparationSeconds int64  `json:"preparation_seconds"`
	ProductionSeconds  int64  `json:"production_seconds"`
	TotalSeconds       int64  `json:"total_seconds"`
	Preparation        string `json:"preparation"`
	Production         string `json:"production"`
	Total              string `json:"total"`
}

// ComputeCompleteTime adds the preparation phase to the session total.
func ComputeCompleteTime(sessions []storage.OperationSession, preparationSeconds int64, now time.Time) CompleteTime {
	if preparationSeconds < 0 {
		preparationSeconds = 0
	}
	production := TotalSeconds(sessions, now)
	total := preparationSeconds + production

	return CompleteTime{
		PreparationSeconds: preparationSeconds,
		ProductionSeconds:  production,
		TotalSeconds:       total,
		Preparation:        FormatClock(preparationSeconds),
		Production:         FormatClock(production),
		Total:              FormatClock(total),
	}
}
