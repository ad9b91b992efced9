// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/app/middleware"
	businessflow "github.com/zyromarketplace/zyro-backend/business_flow"
)

// CampaignHandler handles campaign management and browsing HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		validator:    validator.New(),
	}
}

// Create registers a new draft campaign for the authenticated company
// @Summary Create Campaign
// @Description Create a campaign in draft status
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCampaignRequest true "Campaign data"
// @Success 201 {object} dto.APIResponse{data=dto.CampaignDTO} "Campaign created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Not a company account"
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) Create(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.campaignFlow.CreateCampaign(requestContext(c), companyID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsNotCompany(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only company accounts can manage campaigns", "NOT_COMPANY", nil)
		}
		if businessflow.IsUserNotApproved(err) {
			return errorResponse(c, fiber.StatusForbidden, "Account has not been approved", "USER_NOT_APPROVED", nil)
		}

		log.Println("Campaign creation failed", err)
		return businessErrorResponse(c, err, "Failed to create campaign", "CAMPAIGN_CREATE_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Campaign created", result)
}

// Update applies a partial update to a draft or paused campaign
// @Summary Update Campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Campaign UUID"
// @Param request body dto.UpdateCampaignRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignDTO} "Campaign updated"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 409 {object} dto.APIResponse "Campaign not editable"
// @Router /api/v1/campaigns/{uuid} [put]
func (h *CampaignHandler) Update(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.UpdateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.campaignFlow.UpdateCampaign(requestContext(c), companyID, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Campaign belongs to another company", "CAMPAIGN_ACCESS_DENIED", nil)
		}
		if businessflow.IsCampaignNotEditable(err) {
			return errorResponse(c, fiber.StatusConflict, "Campaign can only be edited while draft or paused", "CAMPAIGN_NOT_EDITABLE", nil)
		}

		log.Println("Campaign update failed", err)
		return businessErrorResponse(c, err, "Failed to update campaign", "CAMPAIGN_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaign updated", result)
}

// UpdateStatus moves a campaign through its lifecycle
// @Summary Update Campaign Status
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Campaign UUID"
// @Param request body dto.UpdateCampaignStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignDTO} "Status updated"
// @Failure 409 {object} dto.APIResponse "Illegal status transition"
// @Failure 402 {object} dto.APIResponse "Subscription required"
// @Router /api/v1/campaigns/{uuid}/status [put]
func (h *CampaignHandler) UpdateStatus(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.UpdateCampaignStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.campaignFlow.UpdateCampaignStatus(requestContext(c), companyID, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsIllegalStatusTransition(err) {
			return errorResponse(c, fiber.StatusConflict, "Illegal campaign status transition", "ILLEGAL_STATUS_TRANSITION", nil)
		}
		if businessflow.IsSubscriptionRequired(err) {
			return errorResponse(c, fiber.StatusPaymentRequired, "An active subscription is required to activate campaigns", "SUBSCRIPTION_REQUIRED", nil)
		}

		log.Println("Campaign status change failed", err)
		return businessErrorResponse(c, err, "Failed to update campaign status", "CAMPAIGN_STATUS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaign status updated", result)
}

// ListMine returns the authenticated company's campaigns
// @Summary List Company Campaigns
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns"
// @Router /api/v1/campaigns/mine [get]
func (h *CampaignHandler) ListMine(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var pagination dto.PaginationRequest
	if err := c.Bind().Query(&pagination); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.campaignFlow.ListCompanyCampaigns(requestContext(c), companyID, pagination)
	if err != nil {
		if businessflow.IsNotCompany(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only company accounts can manage campaigns", "NOT_COMPANY", nil)
		}

		log.Println("Campaign listing failed", err)
		return businessErrorResponse(c, err, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaigns retrieved", result)
}

// ListActive returns active campaigns for the authenticated influencer
// @Summary Browse Active Campaigns
// @Description List active campaigns with per-campaign eligibility, optionally filtered by city and category
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param city query string false "City filter"
// @Param category query string false "Category filter"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns"
// @Failure 403 {object} dto.APIResponse "Not an approved influencer"
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListActive(c fiber.Ctx) error {
	viewerID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.ListCampaignsRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.campaignFlow.ListActiveCampaigns(requestContext(c), viewerID, &req)
	if err != nil {
		if businessflow.IsNotInfluencer(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only influencer accounts can browse campaigns", "NOT_INFLUENCER", nil)
		}
		if businessflow.IsUserNotApproved(err) {
			return errorResponse(c, fiber.StatusForbidden, "Account has not been approved", "USER_NOT_APPROVED", nil)
		}

		log.Println("Campaign browsing failed", err)
		return businessErrorResponse(c, err, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaigns retrieved", result)
}

// Get returns a single campaign with the viewer's eligibility verdict
// @Summary Get Campaign
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.CampaignDTO} "Campaign"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/v1/campaigns/{uuid} [get]
func (h *CampaignHandler) Get(c fiber.Ctx) error {
	viewerID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.campaignFlow.GetCampaign(requestContext(c), viewerID, c.Params("uuid"))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Campaign belongs to another company", "CAMPAIGN_ACCESS_DENIED", nil)
		}

		log.Println("Campaign lookup failed", err)
		return businessErrorResponse(c, err, "Failed to load campaign", "CAMPAIGN_LOOKUP_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Campaign retrieved", result)
}
