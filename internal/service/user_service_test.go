package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
)

type stubUserRepo struct {
	users   map[string]*models.User
	revoked []string
	logs    []*models.AuditLog
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *stubUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var result []models.User
	for _, user := range s.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		result = append(result, *user)
	}
	return result, len(result), nil
}

func (s *stubUserRepo) ListAgentActivity(ctx context.Context) ([]models.AgentActivity, error) {
	var result []models.AgentActivity
	for _, user := range s.users {
		if user.Role == models.RoleVaccinationAgent {
			result = append(result, models.AgentActivity{User: *user})
		}
	}
	return result, nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, id)
	return nil
}

func (s *stubUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	s.revoked = append(s.revoked, userID)
	return nil
}

func (s *stubUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func TestUserServiceListAgents(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["a1"] = &models.User{ID: "a1", Role: models.RoleVaccinationAgent, FullName: "Agent One"}
	repo.users["m1"] = &models.User{ID: "m1", Role: models.RoleFarmManager, FullName: "Manager"}
	svc := NewUserService(repo, nil)

	agents, err := svc.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "a1", agents[0].ID)
}

func TestUserServiceDeleteAgent(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["a1"] = &models.User{ID: "a1", Role: models.RoleVaccinationAgent, CreatedAt: time.Now()}
	svc := NewUserService(repo, nil)

	require.NoError(t, svc.DeleteAgent(context.Background(), "a1", "boss-1"))
	assert.Empty(t, repo.users)
	assert.Contains(t, repo.revoked, "a1")
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.AuditActionUserDelete, repo.logs[0].Action)
}

func TestUserServiceDeleteAgentGuardsRole(t *testing.T) {
	repo := newStubUserRepo()
	repo.users["m1"] = &models.User{ID: "m1", Role: models.RoleFedeganManager}
	svc := NewUserService(repo, nil)

	err := svc.DeleteAgent(context.Background(), "m1", "boss-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.users, 1)

	err = svc.DeleteAgent(context.Background(), "missing", "boss-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
