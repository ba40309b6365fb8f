package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
)

const regionDashboardCacheKey = "dash:regions"

type regionStatsRepository interface {
	RegionStats(ctx context.Context) ([]models.RegionStats, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the regional oversight dashboard.
type DashboardService struct {
	repo   regionStatsRepository
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(repo regionStatsRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// Regions returns per-region campaign aggregates and indicates cache
// utilisation.
func (s *DashboardService) Regions(ctx context.Context) (*models.RegionDashboard, bool, error) {
	if s.cache != nil {
		var cached models.RegionDashboard
		hit, err := s.cache.Get(ctx, regionDashboardCacheKey, &cached)
		if err != nil {
			s.logger.Warn("region dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	stats, err := s.repo.RegionStats(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate regions")
	}

	dashboard := &models.RegionDashboard{
		Regions:     stats,
		GeneratedAt: s.now().UTC(),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, regionDashboardCacheKey, dashboard, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("region dashboard cache write failed", zap.Error(err))
		}
	}
	return dashboard, false, nil
}

// Invalidate drops the cached dashboard so the next read recomputes it.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, regionDashboardCacheKey); err != nil {
		s.logger.Warn("region dashboard cache invalidate failed", zap.Error(err))
	}
}
