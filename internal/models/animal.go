package models

import "time"

// HealthStatus enumerates the health states an animal record can be in.
type HealthStatus string

const (
	HealthStatusHealthy HealthStatus = "Healthy"
	HealthStatusSick    HealthStatus = "Sick"
)

// Valid reports whether the status is a known health state.
func (s HealthStatus) Valid() bool {
	return s == HealthStatusHealthy || s == HealthStatusSick
}

// Animal represents a live herd record. Disease is set only while the animal
// is sick.
type Animal struct {
	ID             string       `db:"id" json:"id"`
	Species        string       `db:"species" json:"species"`
	Breed          string       `db:"breed" json:"breed"`
	Age            int          `db:"age" json:"age"`
	MedicalHistory string       `db:"medical_history" json:"medical_history"`
	HealthStatus   HealthStatus `db:"health_status" json:"health_status"`
	Disease        *string      `db:"disease" json:"disease,omitempty"`
	Quantity       int          `db:"quantity" json:"quantity"`
	FarmID         string       `db:"farm_id" json:"farm_id"`
	IsImported     bool         `db:"is_imported" json:"is_imported"`
	CreatedBy      string       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
