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

// FarmHandler wires HTTP endpoints to the farm service.
type FarmHandler struct {
	service *service.FarmService
}

// NewFarmHandler creates a new handler.
func NewFarmHandler(svc *service.FarmService) *FarmHandler {
	return &FarmHandler{service: svc}
}

// Create godoc
// @Summary Register farm
// @Description Register a new farm owned by the caller
// @Tags Farms
// @Accept json
// @Produce json
// @Param payload body dto.CreateFarmRequest true "Farm payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /farms [post]
func (h *FarmHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid farm payload"))
		return
	}

	farm, err := h.service.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, farm)
}

// List godoc
// @Summary List farms
// @Description List farms visible to the caller
// @Tags Farms
// @Produce json
// @Param region query string false "Filter by region"
// @Param search query string false "Search by name or owner"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /farms [get]
func (h *FarmHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	query := dto.FarmQuery{
		Region:   c.Query("region"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	farms, pagination, err := h.service.List(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, farms, pagination)
}

// Get godoc
// @Summary Get farm
// @Description Get a farm by id
// @Tags Farms
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /farms/{id} [get]
func (h *FarmHandler) Get(c *gin.Context) {
	farm, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, farm, nil)
}

// Delete godoc
// @Summary Delete farm
// @Description Remove a farm registered by the caller
// @Tags Farms
// @Produce json
// @Param id path string true "Farm ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /farms/{id} [delete]
func (h *FarmHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Regions godoc
// @Summary List regions
// @Description List regions that have registered farms
// @Tags Farms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /farms/regions [get]
func (h *FarmHandler) Regions(c *gin.Context) {
	regions, err := h.service.Regions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, regions, nil)
}
