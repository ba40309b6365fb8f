package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
	"github.com/agrocampo/ganadero-api/pkg/geo"
)

// MinSickAnimals is the reporting threshold: a farm needs at least this many
// sick animal groups before an outbreak can be declared.
const MinSickAnimals = 2

type outbreakRepository interface {
	Create(ctx context.Context, outbreak *models.Outbreak) error
	FindByID(ctx context.Context, id string) (*models.Outbreak, error)
	FindDetail(ctx context.Context, id string) (*models.OutbreakDetail, error)
	List(ctx context.Context) ([]models.OutbreakDetail, error)
	ListByFarm(ctx context.Context, farmID string) ([]models.Outbreak, error)
	ListPending(ctx context.Context) ([]models.Outbreak, error)
	UpdateStatus(ctx context.Context, id string, status models.OutbreakStatus) error
	CreateValidation(ctx context.Context, validation *models.Validation) error
	ListValidations(ctx context.Context, outbreakID string) ([]models.Validation, error)
}

type outbreakAnimalCounter interface {
	CountSick(ctx context.Context, farmID string) (int, []string, error)
}

type outbreakFarmLookup interface {
	FindByID(ctx context.Context, id string) (*models.Farm, error)
}

type outbreakAuditor interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// OutbreakService provides outbreak reporting and validation use cases.
type OutbreakService struct {
	repo       outbreakRepository
	animals    outbreakAnimalCounter
	farms      outbreakFarmLookup
	audit      outbreakAuditor
	resolver   geo.Resolver
	geoTimeout time.Duration
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// OutbreakServiceParams groups constructor dependencies.
type OutbreakServiceParams struct {
	Repo       outbreakRepository
	Animals    outbreakAnimalCounter
	Farms      outbreakFarmLookup
	Audit      outbreakAuditor
	Resolver   geo.Resolver
	GeoTimeout time.Duration
	Metrics    *MetricsService
	Validator  *validator.Validate
	Logger     *zap.Logger
}

// NewOutbreakService constructs an OutbreakService instance.
func NewOutbreakService(params OutbreakServiceParams) *OutbreakService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	timeout := params.GeoTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OutbreakService{
		repo:       params.Repo,
		animals:    params.Animals,
		farms:      params.Farms,
		audit:      params.Audit,
		resolver:   params.Resolver,
		geoTimeout: timeout,
		metrics:    params.Metrics,
		validator:  validate,
		logger:     logger,
	}
}

// Report declares an outbreak on a farm. The farm needs at least
// MinSickAnimals sick groups, and only one outbreak can be open per farm at
// a time. Coordinates come from the reporting device when supplied;
// otherwise the farm address is geocoded under a bounded timeout. A report
// without a resolvable position is rejected before anything is written.
func (s *OutbreakService) Report(ctx context.Context, farmID string, req dto.ReportOutbreakRequest, createdBy string) (*models.Outbreak, error) {
	farm, err := s.farms.FindByID(ctx, farmID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "farm not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load farm")
	}

	sickCount, diseases, err := s.animals.CountSick(ctx, farmID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sick animals")
	}
	if sickCount < MinSickAnimals {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "not enough sick animals to declare an outbreak")
	}

	outbreak := &models.Outbreak{
		FarmID:           farmID,
		Diseases:         pq.StringArray(diseases),
		SickAnimalsCount: sickCount,
		Status:           models.OutbreakStatusReported,
		CreatedBy:        createdBy,
	}

	if req.Latitude != nil && req.Longitude != nil {
		outbreak.Latitude = *req.Latitude
		outbreak.Longitude = *req.Longitude
	} else {
		if s.resolver == nil {
			return nil, appErrors.Clone(appErrors.ErrGeoUnavailable, "geocoding is not configured")
		}
		result := geo.Locate(ctx, s.resolver, farm.Address, s.geoTimeout)
		if !result.Resolved() {
			s.logger.Warn("outbreak position unresolved",
				zap.String("farmId", farmID),
				zap.String("outcome", string(result.Outcome)),
				zap.Error(result.Err))
			return nil, appErrors.Clone(appErrors.ErrGeoUnavailable, "outbreak location could not be determined")
		}
		outbreak.Latitude = result.Coordinates.Latitude
		outbreak.Longitude = result.Coordinates.Longitude
	}

	if err := s.repo.Create(ctx, outbreak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "farm already has an open outbreak")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create outbreak")
	}

	if s.metrics != nil {
		s.metrics.RecordOutbreakReport()
	}
	s.recordAudit(ctx, createdBy, models.AuditActionOutbreakReport, outbreak.ID)

	s.logger.Info("outbreak reported",
		zap.String("outbreakId", outbreak.ID),
		zap.String("farmId", farmID),
		zap.Int("sickAnimals", sickCount))
	return outbreak, nil
}

// Validate appends an oversight validation to an outbreak. Validations are
// append-only; once validated an outbreak stays validated.
func (s *OutbreakService) Validate(ctx context.Context, outbreakID string, req dto.ValidateOutbreakRequest, createdBy string) (*models.Validation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid validation payload")
	}

	outbreak, err := s.repo.FindByID(ctx, outbreakID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "outbreak not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load outbreak")
	}

	validation := &models.Validation{
		OutbreakID:      outbreak.ID,
		FarmID:          outbreak.FarmID,
		IsValidated:     true,
		Recommendations: req.Recommendations,
		CreatedBy:       createdBy,
	}
	if err := s.repo.CreateValidation(ctx, validation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "outbreak already validated")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record validation")
	}

	s.recordAudit(ctx, createdBy, models.AuditActionOutbreakValidate, outbreak.ID)
	return validation, nil
}

// Get returns an outbreak with its validation and campaign state.
func (s *OutbreakService) Get(ctx context.Context, id string) (*models.OutbreakDetail, error) {
	detail, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "outbreak not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load outbreak")
	}
	return detail, nil
}

// List returns every outbreak with its validation state, for the
// oversight map.
func (s *OutbreakService) List(ctx context.Context) ([]models.OutbreakDetail, error) {
	details, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list outbreaks")
	}
	return details, nil
}

// ListByFarm returns the outbreaks reported against a farm.
func (s *OutbreakService) ListByFarm(ctx context.Context, farmID string) ([]models.Outbreak, error) {
	outbreaks, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list outbreaks")
	}
	return outbreaks, nil
}

// ListPending returns outbreaks awaiting oversight validation.
func (s *OutbreakService) ListPending(ctx context.Context) ([]models.Outbreak, error) {
	outbreaks, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending outbreaks")
	}
	return outbreaks, nil
}

// Validations returns the validation history of an outbreak.
func (s *OutbreakService) Validations(ctx context.Context, outbreakID string) ([]models.Validation, error) {
	validations, err := s.repo.ListValidations(ctx, outbreakID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list validations")
	}
	return validations, nil
}

func (s *OutbreakService) recordAudit(ctx context.Context, userID, action, resourceID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "outbreak",
		ResourceID: &resourceID,
	}); err != nil {
		s.logger.Warn("failed to record outbreak audit log", zap.Error(err))
	}
}
