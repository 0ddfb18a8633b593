package storage

import "time"

// ProductionCount is either an instantaneous increment (no interval fields)
// or a timed interval that is open until FinishedAt is set.
type ProductionCount struct {
	ID             string     `json:"id" db:"id"`
	PieceID        string     `json:"piece_id" db:"piece_id"`
	OperatorID     string     `json:"operator_id" db:"operator_id"`
	Quantity       int64      `json:"quantity" db:"quantity"`
	StartedAt      *time.Time `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time `json:"finished_at" db:"finished_at"`
	ElapsedSeconds *int64     `json:"elapsed_seconds" db:"elapsed_seconds"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

func (c *ProductionCount) IsOpen() bool {
	return c.StartedAt != nil && c.FinishedAt == nil
}

type OperationSession struct {
	ID             string     `json:"id" db:"id"`
	OperatorID     string     `json:"operator_id" db:"operator_id"`
	ServiceID      string     `json:"service_id" db:"service_id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	PauseStartedAt *time.Time `json:"pause_started_at" db:"pause_started_at"`
	PauseEndedAt   *time.Time `json:"pause_ended_at" db:"pause_ended_at"`
	EndedAt        *time.Time `json:"ended_at" db:"ended_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// ProductionFilter narrows report reads. Zero values mean "any".
type ProductionFilter struct {
	OperatorID string
	ServiceID  string
	PieceID    string
	From       *time.Time
	To         *time.Time
}

// TimedProduction is a finished timed interval joined with its piece,
// service and operator names.
type TimedProduction struct {
	ID                 string     `json:"id" db:"id"`
	PieceID            string     `json:"piece_id" db:"piece_id"`
	PieceName          string     `json:"piece_name" db:"piece_name"`
	ServiceID          string     `json:"service_id" db:"service_id"`
	ServiceClient      string     `json:"service_client" db:"service_client"`
	ServiceDescription string     `json:"service_description" db:"service_description"`
	OperatorID         string     `json:"operator_id" db:"operator_id"`
	OperatorName       string     `json:"operator_name" db:"operator_name"`
	StartedAt          *time.Time `json:"started_at" db:"started_at"`
	FinishedAt         *time.Time `json:"finished_at" db:"finished_at"`
	ElapsedSeconds     int64      `json:"elapsed_seconds" db:"elapsed_seconds"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

type PieceOperatorTotal struct {
	PieceID       string `json:"piece_id" db:"piece_id"`
	OperatorID    string `json:"operator_id" db:"operator_id"`
	TotalProduced int64  `json:"total_produced" db:"total_produced"`
}

type OperatorTotal struct {
	OperatorID string `db:"operator_id"`
	Total      int64  `db:"total"`
}
