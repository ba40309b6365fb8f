package dto

import "github.com/agrocampo/ganadero-api/internal/models"

// CreateCampaignRequest payload for starting a vaccination campaign against
// a validated outbreak. StartDate uses the YYYY-MM-DD form.
type CreateCampaignRequest struct {
	VaccineType   string `json:"vaccine_type" validate:"required"`
	TargetAnimals int    `json:"target_animals" validate:"required,gt=0"`
	StartDate     string `json:"start_date" validate:"required"`
}

// UpdateCampaignStageRequest selects a lifecycle stage directly.
type UpdateCampaignStageRequest struct {
	Status models.CampaignStatus `json:"status" validate:"required"`
}

// AddVaccinationRequest payload for one incremental vaccination record.
type AddVaccinationRequest struct {
	VaccinatedAnimals int    `json:"vaccinated_animals" validate:"required,gt=0"`
	Comments          string `json:"comments"`
}
