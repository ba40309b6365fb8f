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

// CampaignRepository provides database access for vaccination campaigns and
// their vaccination records.
type CampaignRepository struct {
	db *sqlx.DB
}

// NewCampaignRepository creates a new instance of CampaignRepository.
func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `id, outbreak_id, farm_id, vaccine_type, target_animals, start_date, status, vaccinated_animals, progress, created_by, created_at`

// Create inserts a new campaign. The insert is guarded so that an outbreak
// can only carry one campaign; sql.ErrNoRows is returned when a campaign
// already exists for the outbreak.
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.NewString()
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO campaigns (id, outbreak_id, farm_id, vaccine_type, target_animals, start_date, status, vaccinated_animals, progress, created_by, created_at)
	SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	WHERE NOT EXISTS (SELECT 1 FROM campaigns WHERE outbreak_id = $2)`

	result, err := r.db.ExecContext(ctx, query,
		campaign.ID, campaign.OutbreakID, campaign.FarmID, campaign.VaccineType,
		campaign.TargetAnimals, campaign.StartDate, campaign.Status,
		campaign.VaccinatedAnimals, campaign.Progress, campaign.CreatedBy, campaign.CreatedAt)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check campaign insert rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID returns a campaign by identifier.
func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 LIMIT 1`
	var campaign models.Campaign
	if err := r.db.GetContext(ctx, &campaign, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find campaign by id: %w", err)
	}
	return &campaign, nil
}

// FindByOutbreak returns the campaign attached to an outbreak, if any.
func (r *CampaignRepository) FindByOutbreak(ctx context.Context, outbreakID string) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE outbreak_id = $1 LIMIT 1`
	var campaign models.Campaign
	if err := r.db.GetContext(ctx, &campaign, query, outbreakID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find campaign by outbreak: %w", err)
	}
	return &campaign, nil
}

// List returns every campaign, newest first.
func (r *CampaignRepository) List(ctx context.Context) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC`
	var campaigns []models.Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

// ListByFarm returns campaigns for a farm, newest first.
func (r *CampaignRepository) ListByFarm(ctx context.Context, farmID string) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE farm_id = $1 ORDER BY created_at DESC`
	var campaigns []models.Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query, farmID); err != nil {
		return nil, fmt.Errorf("list campaigns by farm: %w", err)
	}
	return campaigns, nil
}

// ListRecords returns the vaccination records of a campaign, newest first.
func (r *CampaignRepository) ListRecords(ctx context.Context, campaignID string) ([]models.VaccinationRecord, error) {
	const query = `SELECT id, campaign_id, vaccinated_animals, vaccination_date, comments, created_by, created_at
	FROM vaccination_records WHERE campaign_id = $1 ORDER BY created_at DESC`
	var records []models.VaccinationRecord
	if err := r.db.SelectContext(ctx, &records, query, campaignID); err != nil {
		return nil, fmt.Errorf("list vaccination records: %w", err)
	}
	return records, nil
}

// UpdateStatus transitions a campaign to a new stage.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, id string, status models.CampaignStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE campaigns SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check campaign update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AddVaccination records a vaccination session and advances the campaign
// counters in a single transaction. The counter update is guarded in the
// WHERE clause so concurrent sessions can never push the vaccinated total
// past the target; sql.ErrNoRows is returned when the session would exceed
// the remaining animals.
func (r *CampaignRepository) AddVaccination(ctx context.Context, record *models.VaccinationRecord) (*models.Campaign, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.VaccinationDate.IsZero() {
		record.VaccinationDate = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin vaccination tx: %w", err)
	}
	defer tx.Rollback()

	const updateQuery = `UPDATE campaigns
	SET vaccinated_animals = vaccinated_animals + $2,
	    progress = ROUND(100.0 * (vaccinated_animals + $2) / target_animals, 2)
	WHERE id = $1 AND vaccinated_animals + $2 <= target_animals`

	result, err := tx.ExecContext(ctx, updateQuery, record.CampaignID, record.VaccinatedAnimals)
	if err != nil {
		return nil, fmt.Errorf("advance campaign counters: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check vaccination update rows: %w", err)
	}
	if rows == 0 {
		return nil, sql.ErrNoRows
	}

	const insertQuery = `INSERT INTO vaccination_records (id, campaign_id, vaccinated_animals, vaccination_date, comments, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, insertQuery,
		record.ID, record.CampaignID, record.VaccinatedAnimals,
		record.VaccinationDate, record.Comments, record.CreatedBy, record.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert vaccination record: %w", err)
	}

	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	var campaign models.Campaign
	if err := tx.GetContext(ctx, &campaign, query, record.CampaignID); err != nil {
		return nil, fmt.Errorf("reload campaign: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit vaccination tx: %w", err)
	}
	return &campaign, nil
}
