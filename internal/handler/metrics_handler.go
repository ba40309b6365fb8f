package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocampo/ganadero-api/internal/service"
	"github.com/agrocampo/ganadero-api/pkg/response"
)

// MetricsHandler exposes runtime metrics in JSON and Prometheus formats.
type MetricsHandler struct {
	service *service.MetricsService
}

// NewMetricsHandler creates a new handler.
func NewMetricsHandler(svc *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: svc}
}

// Snapshot godoc
// @Summary Metrics snapshot
// @Description Current request, cache and runtime counters
// @Tags Metrics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/snapshot [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Snapshot(), nil)
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus() gin.HandlerFunc {
	return gin.WrapH(h.service.Handler())
}
