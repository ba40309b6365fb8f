package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
)

type stubMovementRepo struct {
	animals  map[string]*models.Animal
	imported []models.ImportedAnimal
	exported []models.ExportedAnimal
	seq      int
}

func newStubMovementRepo() *stubMovementRepo {
	return &stubMovementRepo{animals: make(map[string]*models.Animal)}
}

func (s *stubMovementRepo) addAnimal(animal *models.Animal) {
	if animal.ID == "" {
		s.seq++
		animal.ID = fmt.Sprintf("animal-%d", s.seq)
	}
	s.animals[animal.ID] = animal
}

func (s *stubMovementRepo) Export(ctx context.Context, animals []models.Animal, destination string) ([]models.ExportedAnimal, error) {
	now := time.Now().UTC()
	exported := make([]models.ExportedAnimal, 0, len(animals))
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
		s.exported = append(s.exported, row)
		delete(s.animals, animal.ID)
		exported = append(exported, row)
	}
	return exported, nil
}

func (s *stubMovementRepo) Import(ctx context.Context, animal *models.Animal, origin string) (*models.ImportedAnimal, error) {
	animal.IsImported = true
	s.addAnimal(animal)
	imported := models.ImportedAnimal{
		ID:         animal.ID,
		Species:    animal.Species,
		Quantity:   animal.Quantity,
		FarmID:     animal.FarmID,
		Origin:     origin,
		ImportedAt: time.Now().UTC(),
	}
	s.imported = append(s.imported, imported)
	return &imported, nil
}

func (s *stubMovementRepo) ListMovements(ctx context.Context, limit int) ([]models.Movement, error) {
	var feed []models.Movement
	for _, row := range s.imported {
		feed = append(feed, models.Movement{ID: row.ID, Type: models.MovementTypeImport, Species: row.Species, Quantity: row.Quantity, FarmID: row.FarmID, Place: row.Origin, Timestamp: row.ImportedAt})
	}
	for _, row := range s.exported {
		feed = append(feed, models.Movement{ID: row.ID, Type: models.MovementTypeExport, Species: row.Species, Quantity: row.Quantity, FarmID: row.FarmID, Place: row.Destination, Timestamp: row.ExportedAt})
	}
	sort.Slice(feed, func(i, j int) bool { return feed[i].Timestamp.After(feed[j].Timestamp) })
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

func (s *stubMovementRepo) ListByFarm(ctx context.Context, farmID string) ([]models.Movement, error) {
	all, _ := s.ListMovements(ctx, 0)
	var result []models.Movement
	for _, movement := range all {
		if movement.FarmID == farmID {
			result = append(result, movement)
		}
	}
	return result, nil
}

func (s *stubMovementRepo) ListByIDs(ctx context.Context, farmID string, ids []string) ([]models.Animal, error) {
	var result []models.Animal
	for _, id := range ids {
		if animal, ok := s.animals[id]; ok && animal.FarmID == farmID {
			result = append(result, *animal)
		}
	}
	return result, nil
}

func newTestMovementService(repo *stubMovementRepo) *MovementService {
	return NewMovementService(repo, repo, testFarms(), &stubAuditor{}, nil, nil)
}

func TestMovementExportBatch(t *testing.T) {
	repo := newStubMovementRepo()
	repo.addAnimal(&models.Animal{ID: "animal-1", Species: "Bovino", FarmID: "farm-1", Quantity: 12})
	repo.addAnimal(&models.Animal{ID: "animal-2", Species: "Porcino", FarmID: "farm-1", Quantity: 5})
	svc := newTestMovementService(repo)

	exported, err := svc.Export(context.Background(), "farm-1", dto.ExportAnimalsRequest{
		AnimalIDs:   []string{"animal-1", "animal-2"},
		Destination: "Feria de Monteria",
	}, "manager-1")
	require.NoError(t, err)
	assert.Len(t, exported, 2)
	assert.Empty(t, repo.animals)
}

func TestMovementExportRejectsForeignAnimals(t *testing.T) {
	repo := newStubMovementRepo()
	repo.addAnimal(&models.Animal{ID: "animal-1", Species: "Bovino", FarmID: "farm-1", Quantity: 12})
	repo.addAnimal(&models.Animal{ID: "animal-9", Species: "Bovino", FarmID: "farm-9", Quantity: 2})
	svc := newTestMovementService(repo)

	_, err := svc.Export(context.Background(), "farm-1", dto.ExportAnimalsRequest{
		AnimalIDs:   []string{"animal-1", "animal-9"},
		Destination: "Feria de Monteria",
	}, "manager-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	// nothing was exported
	assert.Len(t, repo.animals, 2)
}

func TestMovementImportMarksAnimal(t *testing.T) {
	repo := newStubMovementRepo()
	svc := newTestMovementService(repo)

	imported, err := svc.Import(context.Background(), "farm-1", dto.ImportAnimalRequest{
		Species:        "Bovino",
		Breed:          "Brahman",
		Age:            3,
		MedicalHistory: "Sin novedades",
		HealthStatus:   models.HealthStatusHealthy,
		Quantity:       20,
		Origin:         "Finca La Esperanza",
	}, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, "Finca La Esperanza", imported.Origin)

	animal := repo.animals[imported.ID]
	require.NotNil(t, animal)
	assert.True(t, animal.IsImported)
}

func TestMovementImportSickRequiresDisease(t *testing.T) {
	repo := newStubMovementRepo()
	svc := newTestMovementService(repo)

	_, err := svc.Import(context.Background(), "farm-1", dto.ImportAnimalRequest{
		Species:        "Bovino",
		Breed:          "Brahman",
		Age:            3,
		MedicalHistory: "Tos persistente",
		HealthStatus:   models.HealthStatusSick,
		Quantity:       4,
		Origin:         "Finca La Esperanza",
	}, "manager-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMovementFeedNewestFirst(t *testing.T) {
	repo := newStubMovementRepo()
	svc := newTestMovementService(repo)

	_, err := svc.Import(context.Background(), "farm-1", dto.ImportAnimalRequest{
		Species:        "Bovino",
		Breed:          "Brahman",
		Age:            3,
		MedicalHistory: "Sin novedades",
		HealthStatus:   models.HealthStatusHealthy,
		Quantity:       20,
		Origin:         "Finca La Esperanza",
	}, "manager-1")
	require.NoError(t, err)
	repo.imported[0].ImportedAt = repo.imported[0].ImportedAt.Add(-time.Hour)

	imported, err := svc.Import(context.Background(), "farm-1", dto.ImportAnimalRequest{
		Species:        "Porcino",
		Breed:          "Criollo",
		Age:            1,
		MedicalHistory: "Sin novedades",
		HealthStatus:   models.HealthStatusHealthy,
		Quantity:       6,
		Origin:         "Finca El Roble",
	}, "manager-1")
	require.NoError(t, err)

	feed, err := svc.Feed(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, imported.ID, feed[0].ID)
}
