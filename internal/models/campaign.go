package models

import "time"

// CampaignStatus enumerates the campaign lifecycle stages. Stage selection
// is deliberately loose: an agent may move a campaign to any stage directly.
type CampaignStatus string

const (
	CampaignStatusPlanned    CampaignStatus = "planned"
	CampaignStatusInProgress CampaignStatus = "in_progress"
	CampaignStatusCompleted  CampaignStatus = "completed"
)

// Valid reports whether the status is a known campaign stage.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusPlanned, CampaignStatusInProgress, CampaignStatusCompleted:
		return true
	}
	return false
}

// Campaign is a vaccination effort created against a validated outbreak.
// VaccinatedAnimals never exceeds TargetAnimals and Progress is always
// 100 * VaccinatedAnimals / TargetAnimals.
type Campaign struct {
	ID                string         `db:"id" json:"id"`
	OutbreakID        string         `db:"outbreak_id" json:"outbreak_id"`
	FarmID            string         `db:"farm_id" json:"farm_id"`
	VaccineType       string         `db:"vaccine_type" json:"vaccine_type"`
	TargetAnimals     int            `db:"target_animals" json:"target_animals"`
	StartDate         string         `db:"start_date" json:"start_date"`
	Status            CampaignStatus `db:"status" json:"status"`
	VaccinatedAnimals int            `db:"vaccinated_animals" json:"vaccinated_animals"`
	Progress          float64        `db:"progress" json:"progress"`
	CreatedBy         string         `db:"created_by" json:"created_by"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`

	Records []VaccinationRecord `db:"-" json:"vaccination_records,omitempty"`
}

// Remaining returns how many animals can still be vaccinated.
func (c *Campaign) Remaining() int {
	return c.TargetAnimals - c.VaccinatedAnimals
}

// VaccinationRecord is one append-only increment of vaccination progress.
type VaccinationRecord struct {
	ID                string    `db:"id" json:"id"`
	CampaignID        string    `db:"campaign_id" json:"campaign_id"`
	VaccinatedAnimals int       `db:"vaccinated_animals" json:"vaccinated_animals"`
	VaccinationDate   time.Time `db:"vaccination_date" json:"vaccination_date"`
	Comments          string    `db:"comments" json:"comments"`
	CreatedBy         string    `db:"created_by" json:"created_by"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
