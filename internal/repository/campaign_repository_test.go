package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/agrocampo/ganadero-api/internal/models"
)

func newCampaignRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func campaignRows(id string, vaccinated int, progress float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "outbreak_id", "farm_id", "vaccine_type", "target_animals", "start_date", "status", "vaccinated_animals", "progress", "created_by", "created_at"}).
		AddRow(id, "outbreak-1", "farm-1", "Aftosa", 10, "2026-09-01", "in_progress", vaccinated, progress, "agent-1", time.Now())
}

func TestCampaignRepositoryCreateGuardsOutbreak(t *testing.T) {
	db, mock, cleanup := newCampaignRepoMock(t)
	defer cleanup()

	repo := NewCampaignRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO campaigns")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	campaign := &models.Campaign{
		OutbreakID:    "outbreak-1",
		FarmID:        "farm-1",
		VaccineType:   "Aftosa",
		TargetAnimals: 10,
		StartDate:     "2026-09-01",
		Status:        models.CampaignStatusPlanned,
		CreatedBy:     "agent-1",
	}
	require.NoError(t, repo.Create(context.Background(), campaign))
	require.NotEmpty(t, campaign.ID)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO campaigns")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Create(context.Background(), campaign)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepositoryAddVaccination(t *testing.T) {
	db, mock, cleanup := newCampaignRepoMock(t)
	defer cleanup()

	repo := NewCampaignRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE campaigns")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vaccination_records")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, outbreak_id, farm_id")).
		WithArgs("camp-1").
		WillReturnRows(campaignRows("camp-1", 4, 40))
	mock.ExpectCommit()

	campaign, err := repo.AddVaccination(context.Background(), &models.VaccinationRecord{
		CampaignID:        "camp-1",
		VaccinatedAnimals: 4,
		CreatedBy:         "agent-1",
	})
	require.NoError(t, err)
	require.Equal(t, 4, campaign.VaccinatedAnimals)
	require.InDelta(t, 40, campaign.Progress, 0.01)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepositoryAddVaccinationExceedsTarget(t *testing.T) {
	db, mock, cleanup := newCampaignRepoMock(t)
	defer cleanup()

	repo := NewCampaignRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE campaigns")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.AddVaccination(context.Background(), &models.VaccinationRecord{
		CampaignID:        "camp-1",
		VaccinatedAnimals: 7,
		CreatedBy:         "agent-1",
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newCampaignRepoMock(t)
	defer cleanup()

	repo := NewCampaignRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE campaigns SET status")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.CampaignStatusCompleted)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
