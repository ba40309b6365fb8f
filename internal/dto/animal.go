package dto

import "github.com/agrocampo/ganadero-api/internal/models"

// RegisterAnimalRequest payload for adding an animal to a farm's herd.
// Disease is required when HealthStatus is Sick and forbidden otherwise.
type RegisterAnimalRequest struct {
	Species        string              `json:"species" validate:"required"`
	Breed          string              `json:"breed" validate:"required"`
	Age            int                 `json:"age" validate:"required,gt=0"`
	MedicalHistory string              `json:"medical_history" validate:"required"`
	HealthStatus   models.HealthStatus `json:"health_status" validate:"required"`
	Disease        string              `json:"disease"`
	Quantity       int                 `json:"quantity" validate:"required,gte=1"`
}
