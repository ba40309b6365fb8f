package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/service"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
	"github.com/agrocampo/ganadero-api/pkg/response"
)

// MovementHandler wires HTTP endpoints to the movement service.
type MovementHandler struct {
	service *service.MovementService
}

// NewMovementHandler creates a new handler.
func NewMovementHandler(svc *service.MovementService) *MovementHandler {
	return &MovementHandler{service: svc}
}

// Export godoc
// @Summary Export animals
// @Description Move a batch of animals off a farm into the export ledger
// @Tags Movements
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param payload body dto.ExportAnimalsRequest true "Export payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /farms/{id}/exports [post]
func (h *MovementHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ExportAnimalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	exported, err := h.service.Export(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, exported)
}

// Import godoc
// @Summary Import animal
// @Description Register an animal brought onto a farm from outside
// @Tags Movements
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param payload body dto.ImportAnimalRequest true "Import payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /farms/{id}/imports [post]
func (h *MovementHandler) Import(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ImportAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
		return
	}

	imported, err := h.service.Import(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, imported)
}

// Feed godoc
// @Summary Movement feed
// @Description Merged import and export feed across all farms, newest first
// @Tags Movements
// @Produce json
// @Param limit query int false "Max rows" default(50)
// @Success 200 {object} response.Envelope
// @Router /movements [get]
func (h *MovementHandler) Feed(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	movements, err := h.service.Feed(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, movements, nil)
}

// FarmFeed godoc
// @Summary Farm movement feed
// @Description Import and export history of a single farm, newest first
// @Tags Movements
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} response.Envelope
// @Router /farms/{id}/movements [get]
func (h *MovementHandler) FarmFeed(c *gin.Context) {
	movements, err := h.service.FarmFeed(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, movements, nil)
}
