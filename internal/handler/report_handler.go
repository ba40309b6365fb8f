package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocampo/ganadero-api/internal/service"
	"github.com/agrocampo/ganadero-api/pkg/response"
)

// ReportHandler serves downloadable outbreak reports.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Outbreak godoc
// @Summary Download outbreak report
// @Description Render an outbreak summary as PDF or CSV
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Outbreak ID"
// @Param format query string false "Report format" Enums(pdf, csv) default(pdf)
// @Success 200 {file} byte
// @Failure 404 {object} response.Envelope
// @Router /outbreaks/{id}/report [get]
func (h *ReportHandler) Outbreak(c *gin.Context) {
	format := service.ReportFormat(c.DefaultQuery("format", string(service.ReportFormatPDF)))

	result, err := h.service.OutbreakReport(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
