package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/service"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
	"github.com/agrocampo/ganadero-api/pkg/response"
)

// OutbreakHandler wires HTTP endpoints to the outbreak service.
type OutbreakHandler struct {
	service *service.OutbreakService
}

// NewOutbreakHandler creates a new handler.
func NewOutbreakHandler(svc *service.OutbreakService) *OutbreakHandler {
	return &OutbreakHandler{service: svc}
}

// Report godoc
// @Summary Report outbreak
// @Description Declare a disease outbreak on a farm
// @Tags Outbreaks
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param payload body dto.ReportOutbreakRequest true "Outbreak payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /farms/{id}/outbreaks [post]
func (h *OutbreakHandler) Report(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ReportOutbreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid outbreak payload"))
		return
	}

	outbreak, err := h.service.Report(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, outbreak)
}

// Validate godoc
// @Summary Validate outbreak
// @Description Append an oversight validation with recommendations
// @Tags Outbreaks
// @Accept json
// @Produce json
// @Param id path string true "Outbreak ID"
// @Param payload body dto.ValidateOutbreakRequest true "Validation payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /outbreaks/{id}/validate [post]
func (h *OutbreakHandler) Validate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ValidateOutbreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid validation payload"))
		return
	}

	validation, err := h.service.Validate(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, validation)
}

// Get godoc
// @Summary Get outbreak
// @Description Get an outbreak with its validation and campaign state
// @Tags Outbreaks
// @Produce json
// @Param id path string true "Outbreak ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /outbreaks/{id} [get]
func (h *OutbreakHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// ListByFarm godoc
// @Summary List farm outbreaks
// @Description List the outbreaks reported against a farm
// @Tags Outbreaks
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} response.Envelope
// @Router /farms/{id}/outbreaks [get]
func (h *OutbreakHandler) ListByFarm(c *gin.Context) {
	outbreaks, err := h.service.ListByFarm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, outbreaks, nil)
}

// List godoc
// @Summary List outbreaks
// @Description List every outbreak with its validation state, for map rendering
// @Tags Outbreaks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /outbreaks [get]
func (h *OutbreakHandler) List(c *gin.Context) {
	details, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, details, nil)
}

// ListPending godoc
// @Summary List pending outbreaks
// @Description List outbreaks awaiting oversight validation
// @Tags Outbreaks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /outbreaks/pending [get]
func (h *OutbreakHandler) ListPending(c *gin.Context) {
	outbreaks, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, outbreaks, nil)
}

// Validations godoc
// @Summary List outbreak validations
// @Description List the validation history of an outbreak
// @Tags Outbreaks
// @Produce json
// @Param id path string true "Outbreak ID"
// @Success 200 {object} response.Envelope
// @Router /outbreaks/{id}/validations [get]
func (h *OutbreakHandler) Validations(c *gin.Context) {
	validations, err := h.service.Validations(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, validations, nil)
}
