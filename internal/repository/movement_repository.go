package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agrocampo/ganadero-api/internal/models"
)

// MovementRepository provides database access for the animal import and
// export ledger.
type MovementRepository struct {
	db *sqlx.DB
}

// NewMovementRepository creates a new instance of MovementRepository.
func NewMovementRepository(db *sqlx.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Export moves the given animal groups off a farm in a single transaction:
// every group gets an export ledger row and is removed from the animals
// table. Either the whole shipment is recorded or none of it is.
func (r *MovementRepository) Export(ctx context.Context, animals []models.Animal, destination string) ([]models.ExportedAnimal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin export tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	exported := make([]models.ExportedAnimal, 0, len(animals))

	const insertQuery = `INSERT INTO exported_animals (id, species, farm_id, quantity, is_imported, destination, exported_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, animal := range animals {
		row := models.ExportedAnimal{
			ID:          animal.ID,
			Species:     animal.Species,
			FarmID:      animal.FarmID,
			Quantity:    animal.Quantity,
			IsImported:  animal.IsImported,
			Destination: destination,
			ExportedAt:  now,
		}
		if _, err := tx.ExecContext(ctx, insertQuery,
			row.ID, row.Species, row.FarmID, row.Quantity, row.IsImported, row.Destination, row.ExportedAt); err != nil {
			return nil, fmt.Errorf("insert exported animal %s: %w", animal.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, animal.ID); err != nil {
			return nil, fmt.Errorf("remove exported animal %s: %w", animal.ID, err)
		}
		exported = append(exported, row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit export tx: %w", err)
	}
	return exported, nil
}

// Import registers an incoming animal group in a single transaction: the
// group joins the destination farm's herd and an import ledger row is kept
// under the same identifier.
func (r *MovementRepository) Import(ctx context.Context, animal *models.Animal, origin string) (*models.ImportedAnimal, error) {
	if animal.ID == "" {
		animal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if animal.CreatedAt.IsZero() {
		animal.CreatedAt = now
	}
	animal.IsImported = true

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	const animalQuery = `INSERT INTO animals (id, species, breed, age, medical_history, health_status, disease, quantity, farm_id, is_imported, created_by, created_at)
	VALUES (:id, :species, :breed, :age, :medical_history, :health_status, :disease, :quantity, :farm_id, :is_imported, :created_by, :created_at)`
	if _, err := tx.NamedExecContext(ctx, animalQuery, animal); err != nil {
		return nil, fmt.Errorf("insert imported animal: %w", err)
	}

	imported := &models.ImportedAnimal{
		ID:             animal.ID,
		Species:        animal.Species,
		Breed:          animal.Breed,
		Age:            animal.Age,
		MedicalHistory: animal.MedicalHistory,
		HealthStatus:   animal.HealthStatus,
		Disease:        animal.Disease,
		Quantity:       animal.Quantity,
		FarmID:         animal.FarmID,
		Origin:         origin,
		ImportedAt:     now,
	}
	const ledgerQuery = `INSERT INTO imported_animals (id, species, breed, age, medical_history, health_status, disease, quantity, farm_id, origin, imported_at)
	VALUES (:id, :species, :breed, :age, :medical_history, :health_status, :disease, :quantity, :farm_id, :origin, :imported_at)`
	if _, err := tx.NamedExecContext(ctx, ledgerQuery, imported); err != nil {
		return nil, fmt.Errorf("insert import ledger row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import tx: %w", err)
	}
	return imported, nil
}

// ListMovements returns the merged import and export feed, newest first.
// Ledger rows whose farm no longer exists keep a placeholder farm name.
func (r *MovementRepository) ListMovements(ctx context.Context, limit int) ([]models.Movement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `SELECT m.id, m.type, m.species, m.quantity, m.farm_id,
	COALESCE(f.name, 'Finca desconocida') AS farm_name, m.place, m.ts AS timestamp
	FROM (
		SELECT id, 'import' AS type, species, quantity, farm_id, origin AS place, imported_at AS ts FROM imported_animals
		UNION ALL
		SELECT id, 'export' AS type, species, quantity, farm_id, destination AS place, exported_at AS ts FROM exported_animals
	) m
	LEFT JOIN farms f ON f.id = m.farm_id
	ORDER BY m.ts DESC
	LIMIT $1`

	var movements []models.Movement
	if err := r.db.SelectContext(ctx, &movements, query, limit); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

// ListByFarm returns the merged movement feed scoped to one farm.
func (r *MovementRepository) ListByFarm(ctx context.Context, farmID string) ([]models.Movement, error) {
	const query = `SELECT m.id, m.type, m.species, m.quantity, m.farm_id,
	COALESCE(f.name, 'Finca desconocida') AS farm_name, m.place, m.ts AS timestamp
	FROM (
		SELECT id, 'import' AS type, species, quantity, farm_id, origin AS place, imported_at AS ts FROM imported_animals
		UNION ALL
		SELECT id, 'export' AS type, species, quantity, farm_id, destination AS place, exported_at AS ts FROM exported_animals
	) m
	LEFT JOIN farms f ON f.id = m.farm_id
	WHERE m.farm_id = $1
	ORDER BY m.ts DESC`

	var movements []models.Movement
	if err := r.db.SelectContext(ctx, &movements, query, farmID); err != nil {
		return nil, fmt.Errorf("list farm movements: %w", err)
	}
	return movements, nil
}
