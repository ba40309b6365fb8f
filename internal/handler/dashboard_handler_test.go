package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/agrocampo/ganadero-api/internal/models"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
)

type fakeDashboardSrv struct {
	dashboard *models.RegionDashboard
	cached    bool
	err       error
}

func (f *fakeDashboardSrv) Regions(context.Context) (*models.RegionDashboard, bool, error) {
	return f.dashboard, f.cached, f.err
}

func TestDashboardHandlerRegionsSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		dashboard: &models.RegionDashboard{
			Regions: []models.RegionStats{
				{Region: "Cordoba", TotalVaccinated: 120, AverageProgress: 75.5, CampaignCount: 3},
			},
			GeneratedAt: time.Now().UTC(),
		},
		cached: true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/regions", nil)

	handler.Regions(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cached"])
	regions, ok := envelope.Data["regions"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, regions, 1)
}

func TestDashboardHandlerRegionsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.ErrInternal})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/regions", nil)

	handler.Regions(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
