package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/agrocampo/ganadero-api/internal/models"
)

func newMovementRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMovementRepositoryExport(t *testing.T) {
	db, mock, cleanup := newMovementRepoMock(t)
	defer cleanup()

	repo := NewMovementRepository(db)
	animals := []models.Animal{
		{ID: "animal-1", Species: "Bovino", FarmID: "farm-1", Quantity: 12},
		{ID: "animal-2", Species: "Porcino", FarmID: "farm-1", Quantity: 5, IsImported: true},
	}

	mock.ExpectBegin()
	for range animals {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exported_animals")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM animals")).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	exported, err := repo.Export(context.Background(), animals, "Feria de Monteria")
	require.NoError(t, err)
	require.Len(t, exported, 2)
	require.Equal(t, "Feria de Monteria", exported[0].Destination)
	require.True(t, exported[1].IsImported)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepositoryExportRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMovementRepoMock(t)
	defer cleanup()

	repo := NewMovementRepository(db)
	animals := []models.Animal{{ID: "animal-1", Species: "Bovino", FarmID: "farm-1", Quantity: 12}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exported_animals")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Export(context.Background(), animals, "Feria de Monteria")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepositoryImport(t *testing.T) {
	db, mock, cleanup := newMovementRepoMock(t)
	defer cleanup()

	repo := NewMovementRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO animals")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO imported_animals")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	imported, err := repo.Import(context.Background(), &models.Animal{
		Species:      "Bovino",
		Breed:        "Brahman",
		Age:          3,
		HealthStatus: models.HealthStatusHealthy,
		Quantity:     20,
		FarmID:       "farm-1",
		CreatedBy:    "manager-1",
	}, "Finca La Esperanza")
	require.NoError(t, err)
	require.NotEmpty(t, imported.ID)
	require.Equal(t, "Finca La Esperanza", imported.Origin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepositoryListMovements(t *testing.T) {
	db, mock, cleanup := newMovementRepoMock(t)
	defer cleanup()

	repo := NewMovementRepository(db)
	rows := sqlmock.NewRows([]string{"id", "type", "species", "quantity", "farm_id", "farm_name", "place", "timestamp"}).
		AddRow("animal-2", "export", "Porcino", 5, "farm-1", "Finca El Prado", "Feria de Monteria", time.Now()).
		AddRow("animal-1", "import", "Bovino", 12, "farm-2", "Finca desconocida", "Finca La Esperanza", time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY m.ts DESC")).
		WithArgs(50).
		WillReturnRows(rows)

	movements, err := repo.ListMovements(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	require.Equal(t, models.MovementTypeExport, movements[0].Type)
	require.Equal(t, "Finca desconocida", movements[1].FarmName)
	require.NoError(t, mock.ExpectationsWereMet())
}
