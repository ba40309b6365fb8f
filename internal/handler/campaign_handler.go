package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocampo/ganadero-api/internal/dto"
	"github.com/agrocampo/ganadero-api/internal/service"
	appErrors "github.com/agrocampo/ganadero-api/pkg/errors"
	"github.com/agrocampo/ganadero-api/pkg/response"
)

// CampaignHandler wires HTTP endpoints to the campaign service.
type CampaignHandler struct {
	service *service.CampaignService
}

// NewCampaignHandler creates a new handler.
func NewCampaignHandler(svc *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: svc}
}

// Create godoc
// @Summary Create campaign
// @Description Open a vaccination campaign against a validated outbreak
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path string true "Outbreak ID"
// @Param payload body dto.CreateCampaignRequest true "Campaign payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /outbreaks/{id}/campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid campaign payload"))
		return
	}

	campaign, err := h.service.Create(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, campaign)
}

// UpdateStage godoc
// @Summary Update campaign stage
// @Description Move a campaign to another lifecycle stage
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param payload body dto.UpdateCampaignStageRequest true "Stage payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /campaigns/{id}/status [patch]
func (h *CampaignHandler) UpdateStage(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateCampaignStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid stage payload"))
		return
	}

	campaign, err := h.service.UpdateStage(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, campaign, nil)
}

// AddVaccination godoc
// @Summary Record vaccination session
// @Description Add vaccinated animals to a campaign respecting its target
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param payload body dto.AddVaccinationRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /campaigns/{id}/vaccinations [post]
func (h *CampaignHandler) AddVaccination(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AddVaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vaccination payload"))
		return
	}

	campaign, err := h.service.AddVaccination(c.Request.Context(), c.Param("id"), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, campaign)
}

// Get godoc
// @Summary Get campaign
// @Description Get a campaign with its vaccination records
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, campaign, nil)
}

// GetByOutbreak godoc
// @Summary Get outbreak campaign
// @Description Get the campaign opened against an outbreak
// @Tags Campaigns
// @Produce json
// @Param id path string true "Outbreak ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /outbreaks/{id}/campaigns [get]
func (h *CampaignHandler) GetByOutbreak(c *gin.Context) {
	campaign, err := h.service.GetByOutbreak(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, campaign, nil)
}

// List godoc
// @Summary List campaigns
// @Description List every vaccination campaign, newest first
// @Tags Campaigns
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, campaigns, nil)
}

// ListByFarm godoc
// @Summary List farm campaigns
// @Description List the campaigns ever opened against a farm
// @Tags Campaigns
// @Produce json
// @Param id path string true "Farm ID"
// @Success 200 {object} response.Envelope
// @Router /farms/{id}/campaigns [get]
func (h *CampaignHandler) ListByFarm(c *gin.Context) {
	campaigns, err := h.service.ListByFarm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, campaigns, nil)
}
