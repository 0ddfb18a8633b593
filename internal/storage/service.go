package storage

import "time"

// Service is a customer order for cast pieces.
type Service struct {
	ID                     string     `json:"id" db:"id"`
	Client                 string     `json:"client" db:"client"`
	Description            string     `json:"description" db:"description"`
	Notes                  *string    `json:"notes" db:"notes"`
	PlannedPreparationDate time.Time  `json:"planned_preparation_date" db:"planned_preparation_date"`
	Active                 bool       `json:"active" db:"active"`
	Completed              bool       `json:"completed" db:"completed"`
	PreparationStartedAt   *time.Time `json:"preparation_started_at" db:"preparation_started_at"`
	PreparationFinishedAt  *time.Time `json:"preparation_finished_at" db:"preparation_finished_at"`
	PreparationSeconds     *int64     `json:"preparation_seconds" db:"preparation_seconds"`
	TotalProductionSeconds *int64     `json:"total_production_seconds" db:"total_production_seconds"`
	CompletedAt            *time.Time `json:"completed_at" db:"completed_at"`
	ScrapValue             *float64   `json:"scrap_value" db:"scrap_value"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`

	Pieces []Piece `json:"pieces,omitempty" db:"-"`
}

type Piece struct {
	ID              string    `json:"id" db:"id"`
	ServiceID       string    `json:"service_id" db:"service_id"`
	Name            string    `json:"name" db:"name"`
	PlannedQuantity int64     `json:"planned_quantity" db:"planned_quantity"`
	MetalType       string    `json:"metal_type" db:"metal_type"`
	MaterialBrand   string    `json:"material_brand" db:"material_brand"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// ServiceUpdate carries the admin-editable fields. Completion and
// preparation fields are owned by the tracking core.
type ServiceUpdate struct {
	Client                 *string
	Description            *string
	Notes                  *string
	PlannedPreparationDate *time.Time
	Active                 *bool
	ScrapValue             *float64
}

// PieceProgress is the produced quantity of one piece summed over all operators.
type PieceProgress struct {
	PieceID  string `db:"piece_id"`
	Planned  int64  `db:"planned"`
	Produced int64  `db:"produced"`
}
