package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
	"github.com/agrocampo/ganadero-api/pkg/geo"
)

type stubFarmStore struct {
	farms map[string]*models.Farm
}

func (s *stubFarmStore) FindByID(ctx context.Context, id string) (*models.Farm, error) {
	farm, ok := s.farms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return farm, nil
}

type stubAnimalCounter struct {
	sickCount int
	diseases  []string
}

func (s *stubAnimalCounter) CountSick(ctx context.Context, farmID string) (int, []string, error) {
	return s.sickCount, s.diseases, nil
}

type stubOutbreakRepo struct {
	outbreaks   map[string]*models.Outbreak
	validations map[string][]models.Validation
	campaigns   map[string]bool
	seq         int
}

func newStubOutbreakRepo() *stubOutbreakRepo {
	return &stubOutbreakRepo{
		outbreaks:   make(map[string]*models.Outbreak),
		validations: make(map[string][]models.Validation),
		campaigns:   make(map[string]bool),
	}
}

func (s *stubOutbreakRepo) Create(ctx context.Context, outbreak *models.Outbreak) error {
	for _, existing := range s.outbreaks {
		if existing.FarmID == outbreak.FarmID && existing.Status != models.OutbreakStatusCompleted {
			return sql.ErrNoRows
		}
	}
	s.seq++
	outbreak.ID = fmt.Sprintf("outbreak-%d", s.seq)
	outbreak.CreatedAt = time.Now().UTC()
	s.outbreaks[outbreak.ID] = outbreak
	return nil
}

func (s *stubOutbreakRepo) FindByID(ctx context.Context, id string) (*models.Outbreak, error) {
	outbreak, ok := s.outbreaks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return outbreak, nil
}

func (s *stubOutbreakRepo) FindDetail(ctx context.Context, id string) (*models.OutbreakDetail, error) {
	outbreak, ok := s.outbreaks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	detail := &models.OutbreakDetail{Outbreak: *outbreak, HasCampaign: s.campaigns[id]}
	if history := s.validations[id]; len(history) > 0 {
		latest := history[len(history)-1]
		detail.Validated = latest.IsValidated
		detail.Recommendations = &latest.Recommendations
	}
	return detail, nil
}

func (s *stubOutbreakRepo) ListByFarm(ctx context.Context, farmID string) ([]models.Outbreak, error) {
	var result []models.Outbreak
	for _, outbreak := range s.outbreaks {
		if outbreak.FarmID == farmID {
			result = append(result, *outbreak)
		}
	}
	return result, nil
}

func (s *stubOutbreakRepo) ListPending(ctx context.Context) ([]models.Outbreak, error) {
	var result []models.Outbreak
	for id, outbreak := range s.outbreaks {
		if len(s.validations[id]) == 0 {
			result = append(result, *outbreak)
		}
	}
	return result, nil
}

func (s *stubOutbreakRepo) UpdateStatus(ctx context.Context, id string, status models.OutbreakStatus) error {
	outbreak, ok := s.outbreaks[id]
	if !ok {
		return sql.ErrNoRows
	}
	outbreak.Status = status
	return nil
}

func (s *stubOutbreakRepo) List(ctx context.Context) ([]models.OutbreakDetail, error) {
	var result []models.OutbreakDetail
	for id := range s.outbreaks {
		detail, err := s.FindDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *detail)
	}
	return result, nil
}

func (s *stubOutbreakRepo) CreateValidation(ctx context.Context, validation *models.Validation) error {
	if len(s.validations[validation.OutbreakID]) > 0 {
		return sql.ErrNoRows
	}
	validation.ID = fmt.Sprintf("validation-%d", len(s.validations[validation.OutbreakID])+1)
	s.validations[validation.OutbreakID] = append(s.validations[validation.OutbreakID], *validation)
	return nil
}

func (s *stubOutbreakRepo) ListValidations(ctx context.Context, outbreakID string) ([]models.Validation, error) {
	return s.validations[outbreakID], nil
}

type stubAuditor struct {
	logs []*models.AuditLog
}

func (s *stubAuditor) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

type stubResolver struct {
	coords geo.Coordinates
	err    error
	delay  time.Duration
}

func (s *stubResolver) Resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return geo.Coordinates{}, ctx.Err()
		}
	}
	if s.err != nil {
		return geo.Coordinates{}, s.err
	}
	return s.coords, nil
}

func newTestOutbreakService(repo *stubOutbreakRepo, animals *stubAnimalCounter, farms *stubFarmStore, resolver geo.Resolver) *OutbreakService {
	return NewOutbreakService(OutbreakServiceParams{
		Repo:     repo,
		Animals:  animals,
		Farms:    farms,
		Audit:    &stubAuditor{},
		Resolver: resolver,
	})
}

func testFarms() *stubFarmStore {
	return &stubFarmStore{farms: map[string]*models.Farm{
		"farm-1": {ID: "farm-1", Name: "Finca El Prado", Address: "Km 4 via Monteria", Region: "Cordoba"},
	}}
}

func TestOutbreakReportRequiresSickThreshold(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 1, diseases: []string{"Rabia"}}, testFarms(), nil)

	_, err := svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{}, "manager-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.outbreaks)
}

func TestOutbreakReportSingleOpenPerFarm(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 3, diseases: []string{"Fiebre aftosa"}}, testFarms(), &stubResolver{
		coords: geo.Coordinates{Latitude: 8.75, Longitude: -75.88},
	})

	outbreak, err := svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{}, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, models.OutbreakStatusReported, outbreak.Status)
	assert.Equal(t, 3, outbreak.SickAnimalsCount)

	_, err = svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{}, "manager-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestOutbreakReportUsesDeviceCoordinates(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 2}, testFarms(), &stubResolver{
		coords: geo.Coordinates{Latitude: 1, Longitude: 1},
	})

	lat, lon := 8.74798, -75.88143
	outbreak, err := svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{Latitude: &lat, Longitude: &lon}, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, lat, outbreak.Latitude)
	assert.Equal(t, lon, outbreak.Longitude)
}

func TestOutbreakReportGeocodesFarmAddress(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 2}, testFarms(), &stubResolver{
		coords: geo.Coordinates{Latitude: 8.75, Longitude: -75.88},
	})

	outbreak, err := svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{}, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, 8.75, outbreak.Latitude)
	assert.Equal(t, -75.88, outbreak.Longitude)
}

func TestOutbreakReportRejectedWhenPositionUnresolved(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 2}, testFarms(), &stubResolver{
		err: errors.New("service unavailable"),
	})

	_, err := svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{}, "manager-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGeoUnavailable.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.outbreaks)
}

func TestOutbreakReportRejectedWithoutResolver(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 2}, testFarms(), nil)

	_, err := svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{}, "manager-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGeoUnavailable.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.outbreaks)
}

func TestOutbreakValidate(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 2}, testFarms(), &stubResolver{
		coords: geo.Coordinates{Latitude: 8.75, Longitude: -75.88},
	})

	outbreak, err := svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{}, "manager-1")
	require.NoError(t, err)

	validation, err := svc.Validate(context.Background(), outbreak.ID, dto.ValidateOutbreakRequest{Recommendations: "Cuarentena"}, "agent-1")
	require.NoError(t, err)
	assert.True(t, validation.IsValidated)

	detail, err := svc.Get(context.Background(), outbreak.ID)
	require.NoError(t, err)
	assert.True(t, detail.Validated)
	require.NotNil(t, detail.Recommendations)
	assert.Equal(t, "Cuarentena", *detail.Recommendations)
}

func TestOutbreakValidateTwiceConflicts(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 2}, testFarms(), &stubResolver{
		coords: geo.Coordinates{Latitude: 8.75, Longitude: -75.88},
	})

	outbreak, err := svc.Report(context.Background(), "farm-1", dto.ReportOutbreakRequest{}, "manager-1")
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), outbreak.ID, dto.ValidateOutbreakRequest{Recommendations: "Cuarentena"}, "agent-1")
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), outbreak.ID, dto.ValidateOutbreakRequest{Recommendations: "Otra vez"}, "agent-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestOutbreakValidateUnknownOutbreak(t *testing.T) {
	repo := newStubOutbreakRepo()
	svc := newTestOutbreakService(repo, &stubAnimalCounter{sickCount: 2}, testFarms(), &stubResolver{
		coords: geo.Coordinates{Latitude: 8.75, Longitude: -75.88},
	})

	_, err := svc.Validate(context.Background(), "missing", dto.ValidateOutbreakRequest{Recommendations: "x"}, "agent-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
