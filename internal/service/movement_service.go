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

type movementRepository interface {
	Export(ctx context.Context, animals []models.Animal, destination string) ([]models.ExportedAnimal, error)
	Import(ctx context.Context, animal *models.Animal, origin string) (*models.ImportedAnimal, error)
	ListMovements(ctx context.Context, limit int) ([]models.Movement, error)
	ListByFarm(ctx context.Context, farmID string) ([]models.Movement, error)
}

type movementAnimalLookup interface {
	ListByIDs(ctx context.Context, farmID string, ids []string) ([]models.Animal, error)
}

type movementFarmLookup interface {
	FindByID(ctx context.Context, id string) (*models.Farm, error)
}

type movementAuditor interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// MovementService provides the animal import/export ledger use cases.
type MovementService struct {
	repo      movementRepository
	animals   movementAnimalLookup
	farms     movementFarmLookup
	audit     movementAuditor
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMovementService constructs a MovementService instance.
func NewMovementService(repo movementRepository, animals movementAnimalLookup, farms movementFarmLookup, audit movementAuditor, validate *validator.Validate, logger *zap.Logger) *MovementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MovementService{repo: repo, animals: animals, farms: farms, audit: audit, validator: validate, logger: logger}
}

// Export moves the selected animal groups off a farm. Every id must belong
// to the farm's live herd; the whole batch succeeds or fails together.
func (s *MovementService) Export(ctx context.Context, farmID string, req dto.ExportAnimalsRequest, createdBy string) ([]models.ExportedAnimal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	if _, err := s.farms.FindByID(ctx, farmID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "farm not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load farm")
	}

	animals, err := s.animals.ListByIDs(ctx, farmID, req.AnimalIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load animals")
	}
	if len(animals) != len(req.AnimalIDs) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "some animals do not belong to this farm")
	}

	exported, err := s.repo.Export(ctx, animals, req.Destination)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export animals")
	}

	s.recordAudit(ctx, createdBy, models.AuditActionAnimalExport, farmID)
	s.logger.Info("animals exported",
		zap.String("farmId", farmID),
		zap.Int("groups", len(exported)),
		zap.String("destination", req.Destination))
	return exported, nil
}

// Import registers an incoming animal group on a farm with its ledger copy.
func (s *MovementService) Import(ctx context.Context, farmID string, req dto.ImportAnimalRequest, createdBy string) (*models.ImportedAnimal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}
	if !req.HealthStatus.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown health status")
	}
	if req.HealthStatus == models.HealthStatusSick && req.Disease == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sick animals must name a disease")
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

	imported, err := s.repo.Import(ctx, animal, req.Origin)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import animal")
	}

	s.recordAudit(ctx, createdBy, models.AuditActionAnimalImport, farmID)
	s.logger.Info("animal imported",
		zap.String("farmId", farmID),
		zap.String("animalId", imported.ID),
		zap.String("origin", req.Origin))
	return imported, nil
}

// Feed returns the merged import/export ledger, newest first.
func (s *MovementService) Feed(ctx context.Context, limit int) ([]models.Movement, error) {
	movements, err := s.repo.ListMovements(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list movements")
	}
	return movements, nil
}

// FarmFeed returns the movement ledger of one farm, newest first.
func (s *MovementService) FarmFeed(ctx context.Context, farmID string) ([]models.Movement, error) {
	movements, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list farm movements")
	}
	return movements, nil
}

func (s *MovementService) recordAudit(ctx context.Context, userID, action, resourceID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "movement",
		ResourceID: &resourceID,
	}); err != nil {
		s.logger.Warn("failed to record movement audit log", zap.Error(err))
	}
}
