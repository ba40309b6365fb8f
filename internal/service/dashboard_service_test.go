package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
)

type stubRegionStatsRepo struct {
	stats []models.RegionStats
	calls int
}

func (s *stubRegionStatsRepo) RegionStats(ctx context.Context) ([]models.RegionStats, error) {
	s.calls++
	return s.stats, nil
}

type memoryCacheRepo struct {
	items map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.items = make(map[string][]byte)
	return nil
}

func TestDashboardRegionsCaches(t *testing.T) {
	repo := &stubRegionStatsRepo{stats: []models.RegionStats{
		{Region: "Cordoba", TotalVaccinated: 120, AverageProgress: 65.5, CampaignCount: 3},
		{Region: "Sucre", TotalVaccinated: 40, AverageProgress: 80, CampaignCount: 1},
	}}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(repo, cache, zap.NewNop(), DashboardServiceConfig{CacheTTL: time.Minute})

	dashboard, cached, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, dashboard.Regions, 2)
	assert.Equal(t, "Cordoba", dashboard.Regions[0].Region)

	_, cached, err = svc.Regions(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, repo.calls)

	svc.Invalidate(context.Background())
	_, cached, err = svc.Regions(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.calls)
}

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestDashboardRegionsSurvivesCacheOutage(t *testing.T) {
	repo := &stubRegionStatsRepo{stats: []models.RegionStats{{Region: "Cordoba", CampaignCount: 2}}}
	cache := NewCacheService(brokenCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(repo, cache, zap.NewNop(), DashboardServiceConfig{CacheTTL: time.Minute})

	dashboard, cached, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, dashboard.Regions, 1)
	assert.Equal(t, 1, repo.calls)
}

func TestDashboardRegionsWithoutCache(t *testing.T) {
	repo := &stubRegionStatsRepo{stats: []models.RegionStats{{Region: "Cordoba"}}}
	svc := NewDashboardService(repo, nil, zap.NewNop(), DashboardServiceConfig{})

	_, cached, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = svc.Regions(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, repo.calls)
}
