package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/agrocampo/ganadero-api/internal/models"
)

func newOutbreakRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestOutbreakRepositoryCreateGuardsOpenOutbreak(t *testing.T) {
	db, mock, cleanup := newOutbreakRepoMock(t)
	defer cleanup()

	repo := NewOutbreakRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbreaks")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	outbreak := &models.Outbreak{
		FarmID:           "farm-1",
		Diseases:         pq.StringArray{"Fiebre aftosa"},
		SickAnimalsCount: 3,
		Status:           models.OutbreakStatusReported,
		CreatedBy:        "manager-1",
	}
	require.NoError(t, repo.Create(context.Background(), outbreak))
	require.NotEmpty(t, outbreak.ID)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbreaks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Create(context.Background(), outbreak)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutbreakRepositoryFindDetail(t *testing.T) {
	db, mock, cleanup := newOutbreakRepoMock(t)
	defer cleanup()

	repo := NewOutbreakRepository(db)
	recommendations := "Cuarentena inmediata"
	rows := sqlmock.NewRows([]string{"id", "farm_id", "diseases", "sick_animals_count", "status", "latitude", "longitude", "created_by", "created_at", "updated_at", "validated", "recommendations", "has_campaign"}).
		AddRow("outbreak-1", "farm-1", pq.StringArray{"Fiebre aftosa"}, 3, "reported", 8.74798, -75.88143, "manager-1", time.Now(), time.Now(), true, recommendations, false)
	mock.ExpectQuery(regexp.QuoteMeta("FROM outbreaks o")).
		WithArgs("outbreak-1").
		WillReturnRows(rows)

	detail, err := repo.FindDetail(context.Background(), "outbreak-1")
	require.NoError(t, err)
	require.True(t, detail.Validated)
	require.Equal(t, recommendations, *detail.Recommendations)
	require.False(t, detail.HasCampaign)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutbreakRepositoryCreateValidation(t *testing.T) {
	db, mock, cleanup := newOutbreakRepoMock(t)
	defer cleanup()

	repo := NewOutbreakRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbreak_validations")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	validation := &models.Validation{
		OutbreakID:      "outbreak-1",
		FarmID:          "farm-1",
		IsValidated:     true,
		Recommendations: "Cuarentena inmediata",
		CreatedBy:       "agent-1",
	}
	require.NoError(t, repo.CreateValidation(context.Background(), validation))
	require.NotEmpty(t, validation.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutbreakRepositoryCreateValidationDuplicate(t *testing.T) {
	db, mock, cleanup := newOutbreakRepoMock(t)
	defer cleanup()

	repo := NewOutbreakRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbreak_validations")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CreateValidation(context.Background(), &models.Validation{
		OutbreakID:      "outbreak-1",
		FarmID:          "farm-1",
		IsValidated:     true,
		Recommendations: "Cuarentena",
		CreatedBy:       "agent-2",
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutbreakRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newOutbreakRepoMock(t)
	defer cleanup()

	repo := NewOutbreakRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbreaks SET status")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.OutbreakStatusCompleted)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
