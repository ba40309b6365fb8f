package dto

import "github.com/agrocampo/ganadero-api/internal/models"

// ExportAnimalsRequest moves a selection of live animals into the exported
// ledger. The whole batch succeeds or fails together.
type ExportAnimalsRequest struct {
	AnimalIDs   []string `json:"animal_ids" validate:"required,min=1"`
	Destination string   `json:"destination" validate:"required"`
}

// ImportAnimalRequest creates a live animal and its import audit record in
// one batch, both sharing the same identifier.
type ImportAnimalRequest struct {
	Species        string              `json:"species" validate:"required"`
	Breed          string              `json:"breed" validate:"required"`
	Age            int                 `json:"age" validate:"required,gt=0"`
	MedicalHistory string              `json:"medical_history" validate:"required"`
	HealthStatus   models.HealthStatus `json:"health_status" validate:"required"`
	Disease        string              `json:"disease"`
	Quantity       int                 `json:"quantity" validate:"required,gte=1"`
	Origin         string              `json:"origin"`
}
