package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
)

type campaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id string) (*models.Campaign, error)
	FindByOutbreak(ctx context.Context, outbreakID string) (*models.Campaign, error)
	List(ctx context.Context) ([]models.Campaign, error)
	ListByFarm(ctx context.Context, farmID string) ([]models.Campaign, error)
	ListRecords(ctx context.Context, campaignID string) ([]models.VaccinationRecord, error)
	UpdateStatus(ctx context.Context, id string, status models.CampaignStatus) error
	AddVaccination(ctx context.Context, record *models.VaccinationRecord) (*models.Campaign, error)
}

type campaignOutbreakStore interface {
	FindDetail(ctx context.Context, id string) (*models.OutbreakDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.OutbreakStatus) error
}

type campaignAuditor interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CampaignService provides vaccination campaign use cases.
type CampaignService struct {
	repo      campaignRepository
	outbreaks campaignOutbreakStore
	audit     campaignAuditor
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	onChange  func(ctx context.Context)
}

// NotifyChanges registers a hook invoked after every successful campaign
// mutation. Used to drop derived caches such as the region dashboard.
func (s *CampaignService) NotifyChanges(fn func(ctx context.Context)) {
	s.onChange = fn
}

func (s *CampaignService) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

// NewCampaignService constructs a CampaignService instance.
func NewCampaignService(repo campaignRepository, outbreaks campaignOutbreakStore, audit campaignAuditor, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CampaignService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CampaignService{repo: repo, outbreaks: outbreaks, audit: audit, metrics: metrics, validator: validate, logger: logger}
}

// Create starts a vaccination campaign against an outbreak. The outbreak
// must be validated by oversight first and can only carry one campaign.
func (s *CampaignService) Create(ctx context.Context, outbreakID string, req dto.CreateCampaignRequest, createdBy string) (*models.Campaign, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid campaign payload")
	}
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be a valid YYYY-MM-DD date")
	}

	detail, err := s.outbreaks.FindDetail(ctx, outbreakID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "outbreak not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load outbreak")
	}
	if !detail.Validated {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "outbreak has not been validated")
	}
	if detail.HasCampaign {
		return nil, appErrors.Clone(appErrors.ErrConflict, "outbreak already has a campaign")
	}

	campaign := &models.Campaign{
		OutbreakID:    outbreakID,
		FarmID:        detail.FarmID,
		VaccineType:   req.VaccineType,
		TargetAnimals: req.TargetAnimals,
		StartDate:     req.StartDate,
		Status:        models.CampaignStatusPlanned,
		CreatedBy:     createdBy,
	}
	if err := s.repo.Create(ctx, campaign); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "outbreak already has a campaign")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create campaign")
	}

	if err := s.outbreaks.UpdateStatus(ctx, outbreakID, models.OutbreakStatusPlanned); err != nil {
		s.logger.Warn("failed to move outbreak to planned", zap.String("outbreakId", outbreakID), zap.Error(err))
	}

	s.recordAudit(ctx, createdBy, models.AuditActionCampaignCreate, campaign.ID)
	s.changed(ctx)
	s.logger.Info("campaign created",
		zap.String("campaignId", campaign.ID),
		zap.String("outbreakId", outbreakID),
		zap.Int("target", campaign.TargetAnimals))
	return campaign, nil
}

// UpdateStage moves a campaign to the requested lifecycle stage and mirrors
// the stage onto the outbreak it treats. Any known stage may be selected
// directly.
func (s *CampaignService) UpdateStage(ctx context.Context, id string, req dto.UpdateCampaignStageRequest, updatedBy string) (*models.Campaign, error) {
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown campaign stage")
	}

	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update campaign stage")
	}
	campaign.Status = req.Status

	if err := s.outbreaks.UpdateStatus(ctx, campaign.OutbreakID, models.OutbreakStatus(req.Status)); err != nil {
		s.logger.Warn("failed to mirror stage onto outbreak",
			zap.String("outbreakId", campaign.OutbreakID), zap.Error(err))
	}

	s.recordAudit(ctx, updatedBy, models.AuditActionCampaignStage, campaign.ID)
	s.changed(ctx)
	return campaign, nil
}

// AddVaccination registers one vaccination session against a campaign. The
// session is rejected when it would push the vaccinated total past the
// campaign target, even under concurrent sessions.
func (s *CampaignService) AddVaccination(ctx context.Context, campaignID string, req dto.AddVaccinationRequest, createdBy string) (*models.Campaign, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vaccination payload")
	}

	campaign, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}
	if req.VaccinatedAnimals > campaign.Remaining() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session exceeds the remaining animals")
	}

	updated, err := s.repo.AddVaccination(ctx, &models.VaccinationRecord{
		CampaignID:        campaignID,
		VaccinatedAnimals: req.VaccinatedAnimals,
		Comments:          req.Comments,
		CreatedBy:         createdBy,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "session exceeds the remaining animals")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record vaccination")
	}

	if s.metrics != nil {
		s.metrics.RecordVaccination()
	}
	s.recordAudit(ctx, createdBy, models.AuditActionVaccinationAdd, campaignID)
	s.changed(ctx)

	s.logger.Info("vaccination recorded",
		zap.String("campaignId", campaignID),
		zap.Int("animals", req.VaccinatedAnimals),
		zap.Float64("progress", updated.Progress))
	return updated, nil
}

// Get returns a campaign together with its vaccination records.
func (s *CampaignService) Get(ctx context.Context, id string) (*models.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}

	records, err := s.repo.ListRecords(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vaccination records")
	}
	campaign.Records = records
	return campaign, nil
}

// GetByOutbreak returns the campaign attached to an outbreak.
func (s *CampaignService) GetByOutbreak(ctx context.Context, outbreakID string) (*models.Campaign, error) {
	campaign, err := s.repo.FindByOutbreak(ctx, outbreakID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "outbreak has no campaign")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}
	return campaign, nil
}

// List returns every campaign, newest first.
func (s *CampaignService) List(ctx context.Context) ([]models.Campaign, error) {
	campaigns, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campaigns")
	}
	return campaigns, nil
}

// ListByFarm returns the campaigns created for a farm.
func (s *CampaignService) ListByFarm(ctx context.Context, farmID string) ([]models.Campaign, error) {
	campaigns, err := s.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campaigns")
	}
	return campaigns, nil
}

func (s *CampaignService) recordAudit(ctx context.Context, userID, action, resourceID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "campaign",
		ResourceID: &resourceID,
	}); err != nil {
		s.logger.Warn("failed to record campaign audit log", zap.Error(err))
	}
}
