package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/models"
	"github.com/agrocampo/ganadero-api/internal/service"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
	"github.com/agrocampo/ganadero-api/pkg/response"
)

// AnimalHandler wires HTTP endpoints to the animal service.
type AnimalHandler struct {
	service *service.AnimalService
}

// NewAnimalHandler creates a new handler.
func NewAnimalHandler(svc *service.AnimalService) *AnimalHandler {
	return &AnimalHandler{service: svc}
}

// Register godoc
// @Summary Register animal group
// @Description Add an animal group to a farm's herd
// @Tags Animals
// @Accept json
// @Produce json
// @Param id path string true "Farm ID"
// @Param payload body dto.RegisterAnimalRequest true "Animal payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /farms/{id}/animals [post]
func (h *AnimalHandler) Register(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RegisterAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid animal payload"))
		return
	}

	animal, err := h.service.Register(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, animal)
}

// ListByFarm godoc
// @Summary List farm animals
// @Description List the live herd of a farm
// @Tags Animals
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /farms/{id}/animals [get]
func (h *AnimalHandler) ListByFarm(c *gin.Context) {
	animals, err := h.service.ListByFarm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, animals, nil)
}

// Get godoc
// @Summary Get animal group
// @Description Get an animal group by id
// @Tags Animals
// @Produce json
// @Param id path string true "Animal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /animals/{id} [get]
func (h *AnimalHandler) Get(c *gin.Context) {
	animal, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, animal, nil)
}

// UpdateHealth godoc
// @Summary Update animal health
// @Description Move an animal group between healthy and sick states
// @Tags Animals
// @Accept json
// @Produce json
// @Param id path string true "Animal ID"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /animals/{id}/health [patch]
func (h *AnimalHandler) UpdateHealth(c *gin.Context) {
	var payload struct {
		HealthStatus models.HealthStatus `json:"health_status" binding:"required"`
		Disease      string              `json:"disease"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid health payload"))
		return
	}

	if err := h.service.UpdateHealth(c.Request.Context(), c.Param("id"), payload.HealthStatus, payload.Disease); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Delete godoc
// @Summary Delete animal
// @Description Remove an animal group from the live herd
// @Tags Animals
// @Produce json
// @Param id path string true "Animal ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /animals/{id} [delete]
func (h *AnimalHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
