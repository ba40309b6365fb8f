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

// AnimalRepository provides database access for animal group records.
type AnimalRepository struct {
	db *sqlx.DB
}

// NewAnimalRepository creates a new instance of AnimalRepository.
func NewAnimalRepository(db *sqlx.DB) *AnimalRepository {
	return &AnimalRepository{db: db}
}

const animalColumns = `id, species, breed, age, medical_history, health_status, disease, quantity, farm_id, is_imported, created_by, created_at`

// Create inserts a new animal group.
func (r *AnimalRepository) Create(ctx context.Context, animal *models.Animal) error {
	if animal.ID == "" {
		animal.ID = uuid.NewString()
	}
	if animal.CreatedAt.IsZero() {
		animal.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO animals (id, species, breed, age, medical_history, health_status, disease, quantity, farm_id, is_imported, created_by, created_at)
	VALUES (:id, :species, :breed, :age, :medical_history, :health_status, :disease, :quantity, :farm_id, :is_imported, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, animal); err != nil {
		return fmt.Errorf("create animal: %w", err)
	}
	return nil
}

// FindByID returns an animal group by identifier.
func (r *AnimalRepository) FindByID(ctx context.Context, id string) (*models.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE id = $1 LIMIT 1`
	var animal models.Animal
	if err := r.db.GetContext(ctx, &animal, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find animal by id: %w", err)
	}
	return &animal, nil
}

// ListByFarm returns every animal group registered on a farm.
func (r *AnimalRepository) ListByFarm(ctx context.Context, farmID string) ([]models.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE farm_id = $1 ORDER BY created_at DESC`
	var animals []models.Animal
	if err := r.db.SelectContext(ctx, &animals, query, farmID); err != nil {
		return nil, fmt.Errorf("list animals by farm: %w", err)
	}
	return animals, nil
}

// ListByIDs returns the animal groups matching the given ids on a farm.
func (r *AnimalRepository) ListByIDs(ctx context.Context, farmID string, ids []string) ([]models.Animal, error) {
	query, args, err := sqlx.In(`SELECT `+animalColumns+` FROM animals WHERE farm_id = ? AND id IN (?)`, farmID, ids)
	if err != nil {
		return nil, fmt.Errorf("build animals by ids query: %w", err)
	}
	query = r.db.Rebind(query)
	var animals []models.Animal
	if err := r.db.SelectContext(ctx, &animals, query, args...); err != nil {
		return nil, fmt.Errorf("list animals by ids: %w", err)
	}
	return animals, nil
}

// CountSick returns the number of sick animal groups on a farm together with
// the distinct diseases they carry.
func (r *AnimalRepository) CountSick(ctx context.Context, farmID string) (int, []string, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM animals WHERE farm_id = $1 AND health_status = $2`,
		farmID, models.HealthStatusSick); err != nil {
		return 0, nil, fmt.Errorf("count sick animals: %w", err)
	}

	var diseases []string
	if err := r.db.SelectContext(ctx, &diseases,
		`SELECT DISTINCT disease FROM animals WHERE farm_id = $1 AND health_status = $2 AND disease IS NOT NULL ORDER BY disease ASC`,
		farmID, models.HealthStatusSick); err != nil {
		return 0, nil, fmt.Errorf("list sick diseases: %w", err)
	}

	return count, diseases, nil
}

// Delete removes an animal group from the live set. sql.ErrNoRows is
// returned when the animal does not exist.
func (r *AnimalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check animal delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateHealthStatus changes the health status of an animal group.
func (r *AnimalRepository) UpdateHealthStatus(ctx context.Context, id string, status models.HealthStatus, disease *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE animals SET health_status = $2, disease = $3 WHERE id = $1`,
		id, status, disease)
	if err != nil {
		return fmt.Errorf("update animal health status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check animal update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
