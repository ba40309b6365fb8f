package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agrocampo/ganadero-api/internal/models"
)

// OutbreakRepository provides database access for outbreak reports and their
// validations.
type OutbreakRepository struct {
	db *sqlx.DB
}

// NewOutbreakRepository creates a new instance of OutbreakRepository.
func NewOutbreakRepository(db *sqlx.DB) *OutbreakRepository {
	return &OutbreakRepository{db: db}
}

const outbreakColumns = `id, farm_id, diseases, sick_animals_count, status, latitude, longitude, created_by, created_at, updated_at`

// Create inserts a new outbreak report. The insert is guarded so that a farm
// can only hold one outbreak that is not yet completed; sql.ErrNoRows is
// returned when an open outbreak already exists.
func (r *OutbreakRepository) Create(ctx context.Context, outbreak *models.Outbreak) error {
	if outbreak.ID == "" {
		outbreak.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if outbreak.CreatedAt.IsZero() {
		outbreak.CreatedAt = now
	}
	outbreak.UpdatedAt = now

	const query = `INSERT INTO outbreaks (id, farm_id, diseases, sick_animals_count, status, latitude, longitude, created_by, created_at, updated_at)
	SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	WHERE NOT EXISTS (SELECT 1 FROM outbreaks WHERE farm_id = $2 AND status <> $11)`

	result, err := r.db.ExecContext(ctx, query,
		outbreak.ID, outbreak.FarmID, outbreak.Diseases, outbreak.SickAnimalsCount,
		outbreak.Status, outbreak.Latitude, outbreak.Longitude, outbreak.CreatedBy,
		outbreak.CreatedAt, outbreak.UpdatedAt, models.OutbreakStatusCompleted)
	if err != nil {
		return fmt.Errorf("create outbreak: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check outbreak insert rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID returns an outbreak by identifier.
func (r *OutbreakRepository) FindByID(ctx context.Context, id string) (*models.Outbreak, error) {
	query := `SELECT ` + outbreakColumns + ` FROM outbreaks WHERE id = $1 LIMIT 1`
	var outbreak models.Outbreak
	if err := r.db.GetContext(ctx, &outbreak, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find outbreak by id: %w", err)
	}
	return &outbreak, nil
}

// FindDetail returns an outbreak together with its validation state and
// whether a campaign has already been created for it.
func (r *OutbreakRepository) FindDetail(ctx context.Context, id string) (*models.OutbreakDetail, error) {
	const query = `SELECT o.id, o.farm_id, o.diseases, o.sick_animals_count, o.status, o.latitude, o.longitude, o.created_by, o.created_at, o.updated_at,
	COALESCE(v.is_validated, FALSE) AS validated,
	v.recommendations AS recommendations,
	EXISTS (SELECT 1 FROM campaigns c WHERE c.outbreak_id = o.id) AS has_campaign
	FROM outbreaks o
	LEFT JOIN LATERAL (
		SELECT is_validated, recommendations FROM outbreak_validations
		WHERE outbreak_id = o.id ORDER BY created_at DESC LIMIT 1
	) v ON TRUE
	WHERE o.id = $1`

	var detail models.OutbreakDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find outbreak detail: %w", err)
	}
	return &detail, nil
}

// List returns every outbreak joined with its validation state, newest
// first. Feeds the oversight map.
func (r *OutbreakRepository) List(ctx context.Context) ([]models.OutbreakDetail, error) {
	const query = `SELECT o.id, o.farm_id, o.diseases, o.sick_animals_count, o.status, o.latitude, o.longitude, o.created_by, o.created_at, o.updated_at,
	COALESCE(v.is_validated, FALSE) AS validated,
	v.recommendations AS recommendations,
	EXISTS (SELECT 1 FROM campaigns c WHERE c.outbreak_id = o.id) AS has_campaign
	FROM outbreaks o
	LEFT JOIN LATERAL (
		SELECT is_validated, recommendations FROM outbreak_validations
		WHERE outbreak_id = o.id ORDER BY created_at DESC LIMIT 1
	) v ON TRUE
	ORDER BY o.created_at DESC`
	var details []models.OutbreakDetail
	if err := r.db.SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list outbreaks: %w", err)
	}
	return details, nil
}

// ListByFarm returns outbreaks reported for a farm, newest first.
func (r *OutbreakRepository) ListByFarm(ctx context.Context, farmID string) ([]models.Outbreak, error) {
	query := `SELECT ` + outbreakColumns + ` FROM outbreaks WHERE farm_id = $1 ORDER BY created_at DESC`
	var outbreaks []models.Outbreak
	if err := r.db.SelectContext(ctx, &outbreaks, query, farmID); err != nil {
		return nil, fmt.Errorf("list outbreaks by farm: %w", err)
	}
	return outbreaks, nil
}

// ListPending returns outbreaks that have no validation yet, newest first.
func (r *OutbreakRepository) ListPending(ctx context.Context) ([]models.Outbreak, error) {
	const query = `SELECT o.id, o.farm_id, o.diseases, o.sick_animals_count, o.status, o.latitude, o.longitude, o.created_by, o.created_at, o.updated_at
	FROM outbreaks o
	WHERE NOT EXISTS (SELECT 1 FROM outbreak_validations v WHERE v.outbreak_id = o.id)
	ORDER BY o.created_at DESC`
	var outbreaks []models.Outbreak
	if err := r.db.SelectContext(ctx, &outbreaks, query); err != nil {
		return nil, fmt.Errorf("list pending outbreaks: %w", err)
	}
	return outbreaks, nil
}

// UpdateStatus transitions an outbreak to a new status.
func (r *OutbreakRepository) UpdateStatus(ctx context.Context, id string, status models.OutbreakStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE outbreaks SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update outbreak status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check outbreak update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateValidation records the validation of an outbreak. The insert is
// guarded so an outbreak is validated at most once; sql.ErrNoRows is
// returned when a validation already exists.
func (r *OutbreakRepository) CreateValidation(ctx context.Context, validation *models.Validation) error {
	if validation.ID == "" {
		validation.ID = uuid.NewString()
	}
	if validation.CreatedAt.IsZero() {
		validation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO outbreak_validations (id, outbreak_id, farm_id, is_validated, recommendations, created_by, created_at)
	SELECT $1, $2, $3, $4, $5, $6, $7
	WHERE NOT EXISTS (SELECT 1 FROM outbreak_validations WHERE outbreak_id = $2)`
	result, err := r.db.ExecContext(ctx, query,
		validation.ID, validation.OutbreakID, validation.FarmID, validation.IsValidated,
		validation.Recommendations, validation.CreatedBy, validation.CreatedAt)
	if err != nil {
		return fmt.Errorf("create outbreak validation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check validation insert rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListValidations returns the validation history of an outbreak, newest first.
func (r *OutbreakRepository) ListValidations(ctx context.Context, outbreakID string) ([]models.Validation, error) {
	const query = `SELECT id, outbreak_id, farm_id, is_validated, recommendations, created_by, created_at
	FROM outbreak_validations WHERE outbreak_id = $1 ORDER BY created_at DESC`
	var validations []models.Validation
	if err := r.db.SelectContext(ctx, &validations, query, outbreakID); err != nil {
		return nil, fmt.Errorf("list outbreak validations: %w", err)
	}
	return validations, nil
}
