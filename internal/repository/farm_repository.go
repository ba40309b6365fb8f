package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agrocampo/ganadero-api/internal/models"
)

// FarmRepository provides database access for farm records.
type FarmRepository struct {
	db *sqlx.DB
}

// NewFarmRepository creates a new instance of FarmRepository.
func NewFarmRepository(db *sqlx.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

const farmColumns = `id, name, address, region, owner, created_by, created_at`

// Create inserts a new farm.
func (r *FarmRepository) Create(ctx context.Context, farm *models.Farm) error {
	if farm.ID == "" {
		farm.ID = uuid.NewString()
	}
	if farm.CreatedAt.IsZero() {
		farm.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO farms (id, name, address, region, owner, created_by, created_at)
	VALUES (:id, :name, :address, :region, :owner, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, farm); err != nil {
		return fmt.Errorf("create farm: %w", err)
	}
	return nil
}

// FindByID returns a farm by identifier.
func (r *FarmRepository) FindByID(ctx context.Context, id string) (*models.Farm, error) {
	query := `SELECT ` + farmColumns + ` FROM farms WHERE id = $1 LIMIT 1`
	var farm models.Farm
	if err := r.db.GetContext(ctx, &farm, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find farm by id: %w", err)
	}
	return &farm, nil
}

// List returns farms matching the filter with a total count for pagination.
func (r *FarmRepository) List(ctx context.Context, filter models.FarmFilter) ([]models.Farm, int, error) {
	baseQuery := `FROM farms WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Region != "" {
		conditions = append(conditions, fmt.Sprintf("region = $%d", len(args)+1))
		args = append(args, filter.Region)
	}
	if filter.CreatedBy != "" {
		conditions = append(conditions, fmt.Sprintf("created_by = $%d", len(args)+1))
		args = append(args, filter.CreatedBy)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(owner) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", farmColumns, baseQuery, pageSize, offset)

	var farms []models.Farm
	if err := r.db.SelectContext(ctx, &farms, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list farms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count farms: %w", err)
	}

	return farms, total, nil
}

// Delete removes a farm. sql.ErrNoRows is returned when the farm does
// not exist.
func (r *FarmRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM farms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete farm: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check farm delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListRegions returns the distinct regions that have at least one farm.
func (r *FarmRepository) ListRegions(ctx context.Context) ([]string, error) {
	var regions []string
	if err := r.db.SelectContext(ctx, &regions, `SELECT DISTINCT region FROM farms ORDER BY region ASC`); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}
