package storage

import "time"

type RawMaterial struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Value         float64   `json:"value" db:"value"`
	ServicesCount int64     `json:"services_count" db:"services_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	Services []ServiceRawMaterial `json:"services,omitempty" db:"-"`
}

type RawMaterialUpdate struct {
	Name  *string
	Value *float64
}

// ServiceRawMaterial links a raw material to a service with a quantity.
type ServiceRawMaterial struct {
	ID            string    `json:"id" db:"id"`
	ServiceID     string    `json:"service_id" db:"service_id"`
	RawMaterialID string    `json:"raw_material_id" db:"raw_material_id"`
	Quantity      int64     `json:"quantity" db:"quantity"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	RawMaterialName  string  `json:"raw_material_name,omitempty" db:"raw_material_name"`
	RawMaterialValue float64 `json:"raw_material_value,omitempty" db:"raw_material_value"`
	ServiceClient    string  `json:"service_client,omitempty" db:"service_client"`
}
