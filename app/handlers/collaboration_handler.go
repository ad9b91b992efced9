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

// CollaborationHandler handles collaboration request HTTP endpoints
type CollaborationHandler struct {
	collaborationFlow businessflow.CollaborationFlow
	validator         *validator.Validate
}

// NewCollaborationHandler creates a new collaboration handler
func NewCollaborationHandler(collaborationFlow businessflow.CollaborationFlow) *CollaborationHandler {
	return &CollaborationHandler{
		collaborationFlow: collaborationFlow,
		validator:         validator.New(),
	}
}

// Submit creates a collaboration request on an active campaign
// @Summary Submit Collaboration Request
// @Description Apply to a campaign. Requires eligibility and no other open request on the same campaign.
// @Tags Collaborations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitCollaborationRequest true "Request data"
// @Success 201 {object} dto.APIResponse{data=dto.CollaborationRequestDTO} "Request submitted"
// @Failure 400 {object} dto.APIResponse "Validation or eligibility error"
// @Failure 409 {object} dto.APIResponse "Duplicate open request"
// @Router /api/v1/collaborations [post]
func (h *CollaborationHandler) Submit(c fiber.Ctx) error {
	influencerID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.SubmitCollaborationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.collaborationFlow.SubmitRequest(requestContext(c), influencerID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignNotOpen(err) {
			return errorResponse(c, fiber.StatusConflict, "Campaign is not accepting requests", "CAMPAIGN_NOT_OPEN", nil)
		}
		if businessflow.IsDuplicateCollaborationRequest(err) {
			return errorResponse(c, fiber.StatusConflict, "An open request for this campaign already exists", "DUPLICATE_REQUEST", nil)
		}
		if businessflow.IsNotEligible(err) {
			// The eligibility message carries the follower deficit wording shown in the app.
			if be, ok := businessflow.AsBusinessError(err); ok {
				return errorResponse(c, fiber.StatusBadRequest, be.Message, "NOT_ELIGIBLE", nil)
			}
			return errorResponse(c, fiber.StatusBadRequest, "Eligibility requirements not met", "NOT_ELIGIBLE", nil)
		}
		if businessflow.IsNotInfluencer(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only influencer accounts can apply to campaigns", "NOT_INFLUENCER", nil)
		}

		log.Println("Request submission failed", err)
		return businessErrorResponse(c, err, "Failed to submit collaboration request", "REQUEST_SUBMIT_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Collaboration request submitted", result)
}

// DeliverContent records delivered content assets on an approved request
// @Summary Deliver Content
// @Tags Collaborations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Request UUID"
// @Param request body dto.DeliverContentRequest true "Content asset URLs"
// @Success 200 {object} dto.APIResponse{data=dto.CollaborationRequestDTO} "Content delivered"
// @Failure 409 {object} dto.APIResponse "Request not approved or already delivered"
// @Router /api/v1/collaborations/{uuid}/content [post]
func (h *CollaborationHandler) DeliverContent(c fiber.Ctx) error {
	influencerID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.DeliverContentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.collaborationFlow.DeliverContent(requestContext(c), influencerID, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRequestNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Collaboration request not found", "REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsRequestAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Request belongs to another influencer", "REQUEST_ACCESS_DENIED", nil)
		}
		if businessflow.IsRequestNotApproved(err) {
			return errorResponse(c, fiber.StatusConflict, "Content can only be delivered on approved requests", "REQUEST_NOT_APPROVED", nil)
		}
		if businessflow.IsContentAlreadyDelivered(err) {
			return errorResponse(c, fiber.StatusConflict, "Content was already delivered", "CONTENT_ALREADY_DELIVERED", nil)
		}
		if businessflow.IsNoContentAssets(err) {
			return errorResponse(c, fiber.StatusBadRequest, "At least one content asset is required", "NO_CONTENT_ASSETS", nil)
		}

		log.Println("Content delivery failed", err)
		return businessErrorResponse(c, err, "Failed to deliver content", "CONTENT_DELIVERY_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Content delivered", result)
}

// ListMine returns the influencer's own collaboration requests
// @Summary List My Requests
// @Tags Collaborations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListRequestsResponse} "Requests"
// @Router /api/v1/collaborations [get]
func (h *CollaborationHandler) ListMine(c fiber.Ctx) error {
	influencerID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var pagination dto.PaginationRequest
	if err := c.Bind().Query(&pagination); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.collaborationFlow.ListInfluencerRequests(requestContext(c), influencerID, pagination)
	if err != nil {
		log.Println("Request listing failed", err)
		return businessErrorResponse(c, err, "Failed to list requests", "REQUEST_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Requests retrieved", result)
}

// ListForCampaign returns the requests on one of the company's campaigns
// @Summary List Campaign Requests
// @Tags Collaborations
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListRequestsResponse} "Requests"
// @Router /api/v1/campaigns/{uuid}/requests [get]
func (h *CollaborationHandler) ListForCampaign(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var pagination dto.PaginationRequest
	if err := c.Bind().Query(&pagination); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.collaborationFlow.ListCampaignRequests(requestContext(c), companyID, c.Params("uuid"), pagination)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Campaign belongs to another company", "CAMPAIGN_ACCESS_DENIED", nil)
		}

		log.Println("Campaign request listing failed", err)
		return businessErrorResponse(c, err, "Failed to list requests", "REQUEST_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Requests retrieved", result)
}

// History buckets the influencer's collaborations for the history screen
// @Summary Collaboration History
// @Description Returns requests grouped into proximos, pasados and cancelados
// @Tags Collaborations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CollaborationHistoryResponse} "History"
// @Router /api/v1/collaborations/history [get]
func (h *CollaborationHandler) History(c fiber.Ctx) error {
	influencerID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.collaborationFlow.History(requestContext(c), influencerID)
	if err != nil {
		log.Println("History failed", err)
		return businessErrorResponse(c, err, "Failed to load collaboration history", "HISTORY_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "History retrieved", result)
}
