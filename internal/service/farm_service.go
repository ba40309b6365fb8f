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

type farmRepository interface {
	Create(ctx context.Context, farm *models.Farm) error
	FindByID(ctx context.Context, id string) (*models.Farm, error)
	List(ctx context.Context, filter models.FarmFilter) ([]models.Farm, int, error)
	ListRegions(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// FarmService provides farm registry use cases.
type FarmService struct {
	repo      farmRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFarmService constructs a FarmService instance.
func NewFarmService(repo farmRepository, validate *validator.Validate, logger *zap.Logger) *FarmService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FarmService{repo: repo, validator: validate, logger: logger}
}

// Create registers a new farm owned by the caller.
func (s *FarmService) Create(ctx context.Context, req dto.CreateFarmRequest, createdBy string) (*models.Farm, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid farm payload")
	}

	farm := &models.Farm{
		Name:      req.Name,
		Address:   req.Address,
		Region:    req.Region,
		Owner:     req.Owner,
		CreatedBy: createdBy,
	}
	if err := s.repo.Create(ctx, farm); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create farm")
	}

	s.logger.Info("farm registered", zap.String("farmId", farm.ID), zap.String("region", farm.Region))
	return farm, nil
}

// Get returns a farm by id.
func (s *FarmService) Get(ctx context.Context, id string) (*models.Farm, error) {
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "farm not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load farm")
	}
	return farm, nil
}

// List returns farms matching the query. Farm managers only see the farms
// they registered; oversight roles see everything.
func (s *FarmService) List(ctx context.Context, query dto.FarmQuery, claims *models.JWTClaims) ([]models.Farm, *models.Pagination, error) {
	filter := models.FarmFilter{
		Region:   query.Region,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if claims != nil && claims.Role == models.RoleFarmManager {
		filter.CreatedBy = claims.UserID
	}

	farms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list farms")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return farms, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Delete removes a farm. Farm managers can only delete farms they
// registered themselves.
func (s *FarmService) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "farm not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load farm")
	}
	if claims != nil && claims.Role == models.RoleFarmManager && farm.CreatedBy != claims.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "farm belongs to another manager")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete farm")
	}
	s.logger.Info("farm deleted", zap.String("farmId", id))
	return nil
}

// Regions returns the distinct regions with registered farms.
func (s *FarmService) Regions(ctx context.Context) ([]string, error) {
	regions, err := s.repo.ListRegions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list regions")
	}
	return regions, nil
}
