package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
)

type animalRepository interface {
	Create(ctx context.Context, animal *models.Animal) error
	FindByID(ctx context.Context, id string) (*models.Animal, error)
	ListByFarm(ctx context.Context, farmID string) ([]models.Animal, error)
	UpdateHealthStatus(ctx context.Context, id string, status models.HealthStatus, disease *string) error
	Delete(ctx context.Context, id string) error
}

type animalFarmLookup interface {
	FindByID(ctx context.Context, id string) (*models.Farm, error)
}

// AnimalService provides herd registry use cases.
type AnimalService struct {
	repo      animalRepository
	farms     animalFarmLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnimalService constructs an AnimalService instance.
func NewAnimalService(repo animalRepository, farms animalFarmLookup, validate *validator.Validate, logger *zap.Logger) *AnimalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AnimalService{repo: repo, farms: farms, validator: validate, logger: logger}
}

// Register adds an animal group to a farm's herd. A sick group must name its
// disease; a healthy group must not carry one.
func (s *AnimalService) Register(ctx context.Context, farmID string, req dto.RegisterAnimalRequest, createdBy string) (*models.Animal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid animal payload")
	}
	if !req.HealthStatus.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown health status")
	}
	if req.HealthStatus == models.HealthStatusSick && req.Disease == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sick animals must name a disease")
	}
	if req.HealthStatus == models.HealthStatusHealthy && req.Disease != "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "healthy animals cannot carry a disease")
	}

	if _, err := s.farms.FindByID(ctx, farmID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "farm not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load farm")
	}

	animal := &models.Animal{
		Species:        req.Species,
		Breed:          req.Breed,
		Age:            req.Age,
		MedicalHistory: req.MedicalHistory,
		HealthStatus:   req.HealthStatus,
		Quantity:       req.Quantity,
		FarmID:         farmID,
		CreatedBy:      createdBy,
	}
	if req.Disease != "" {
		animal.Disease = &req.Disease
	}

	if err := s.repo.Create(ctx, animal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register animal")
	}
	return animal, nil
}

// ListByFarm returns the live herd of a farm.
func (s *AnimalService) ListByFarm(ctx context.Context, farmID string) ([]models.Animal, error) {
	if _, err := s.farms.FindByID(ctx, farmID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "farm not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load farm")
	}

	animals, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list animals")
	}
	return animals, nil
}

// Get returns an animal group by id.
func (s *AnimalService) Get(ctx context.Context, id string) (*models.Animal, error) {
	animal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "animal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load animal")
	}
	return animal, nil
}

// Delete removes an animal group from the live herd.
func (s *AnimalService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "animal not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete animal")
	}
	return nil
}

// UpdateHealth transitions an animal group between healthy and sick states.
func (s *AnimalService) UpdateHealth(ctx context.Context, id string, status models.HealthStatus, disease string) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown health status")
	}
	if status == models.HealthStatusSick && disease == "" {
		return appErrors.Clone(appErrors.ErrValidation, "sick animals must name a disease")
	}

	var diseasePtr *string
	if status == models.HealthStatusSick {
		diseasePtr = &disease
	}
	if err := s.repo.UpdateHealthStatus(ctx, id, status, diseasePtr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "animal not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update animal health")
	}
	return nil
}
