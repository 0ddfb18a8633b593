package storage

import "time"

type AuditLog struct {
	ID          string    `json:"id" db:"id"`
	ActorUserID *string   `json:"actor_user_id" db:"actor_user_id"`
	Action      string    `json:"action" db:"action"`
	Entity      string    `json:"entity" db:"entity"`
	EntityID    *string   `json:"entity_id" db:"entity_id"`
	Before      *string   `json:"before" db:"before_data"`
	After       *string   `json:"after" db:"after_data"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type AuditFilter struct {
	Entity string
	Limit  uint64
}
