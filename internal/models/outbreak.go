package models

import (
	"time"

	"github.com/lib/pq"
)

// OutbreakStatus tracks an outbreak from first report through the campaign
// stages applied to it.
type OutbreakStatus string

const (
	OutbreakStatusReported   OutbreakStatus = "reported"
	OutbreakStatusPlanned    OutbreakStatus = "planned"
	OutbreakStatusInProgress OutbreakStatus = "in_progress"
	OutbreakStatusCompleted  OutbreakStatus = "completed"
)

// Valid reports whether the status is a known outbreak state.
func (s OutbreakStatus) Valid() bool {
	switch s {
	case OutbreakStatusReported, OutbreakStatusPlanned, OutbreakStatusInProgress, OutbreakStatusCompleted:
		return true
	}
	return false
}

// Outbreak records a disease event reported against a farm.
type Outbreak struct {
	ID               string         `db:"id" json:"id"`
	FarmID           string         `db:"farm_id" json:"farm_id"`
	Latitude         float64        `db:"latitude" json:"latitude"`
	Longitude        float64        `db:"longitude" json:"longitude"`
	Diseases         pq.StringArray `db:"diseases" json:"diseases"`
	SickAnimalsCount int            `db:"sick_animals_count" json:"sick_animals_count"`
	Status           OutbreakStatus `db:"status" json:"status"`
	CreatedBy        string         `db:"created_by" json:"created_by"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// Validation is the oversight approval attached to an outbreak. Rows are
// append-only; a validated outbreak stays validated.
type Validation struct {
	ID              string    `db:"id" json:"id"`
	OutbreakID      string    `db:"outbreak_id" json:"outbreak_id"`
	FarmID          string    `db:"farm_id" json:"farm_id"`
	IsValidated     bool      `db:"is_validated" json:"is_validated"`
	Recommendations string    `db:"recommendations" json:"recommendations"`
	CreatedBy       string    `db:"created_by" json:"created_by"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// OutbreakDetail joins an outbreak with its validation state for list and
// map rendering.
type OutbreakDetail struct {
	Outbreak
	Validated       bool    `db:"validated" json:"validated"`
	Recommendations *string `db:"recommendations" json:"recommendations,omitempty"`
	HasCampaign     bool    `db:"has_campaign" json:"has_campaign"`
}
