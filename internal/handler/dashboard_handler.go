package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocampo/ganadero-api/internal/models"
	"github.com/agrocampo/ganadero-api/pkg/response"
)

type regionDashboardService interface {
	Regions(ctx context.Context) (*models.RegionDashboard, bool, error)
}

// DashboardHandler exposes the aggregated region dashboard.
type DashboardHandler struct {
	service regionDashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc regionDashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Regions godoc
// @Summary Region dashboard
// @Description Per region farm, herd and campaign aggregates
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/regions [get]
func (h *DashboardHandler) Regions(c *gin.Context) {
	dashboard, cached, err := h.service.Regions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dashboard, nil, map[string]interface{}{"cached": cached})
}
