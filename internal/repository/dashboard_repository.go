package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/agrocampo/ganadero-api/internal/models"
)

// DashboardRepository aggregates campaign figures per region for the
// oversight dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository creates a new instance of DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// RegionStats aggregates vaccinated totals, average progress and campaign
// counts grouped by farm region. Regions are ordered by vaccinated totals so
// the busiest regions lead the dashboard.
func (r *DashboardRepository) RegionStats(ctx context.Context) ([]models.RegionStats, error) {
	const query = `SELECT f.region,
	COALESCE(SUM(c.vaccinated_animals), 0) AS total_vaccinated,
	COALESCE(ROUND(AVG(c.progress), 2), 0) AS average_progress,
	COUNT(c.id) AS campaign_count,
	COUNT(c.id) FILTER (WHERE c.status = 'completed') AS completed_count,
	COALESCE(SUM(c.target_animals), 0) AS total_target_count
	FROM farms f
	LEFT JOIN campaigns c ON c.farm_id = f.id
	GROUP BY f.region
	ORDER BY total_vaccinated DESC, f.region ASC`

	var stats []models.RegionStats
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("aggregate region stats: %w", err)
	}
	return stats, nil
}
