// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	businessflow "github.com/zyromarketplace/zyro-backend/business_flow"
)

// AdminHandler handles the authenticated admin HTTP endpoints
type AdminHandler struct {
	adminUserFlow     businessflow.AdminUserFlow
	collaborationFlow businessflow.CollaborationFlow
	campaignFlow      businessflow.CampaignFlow
	validator         *validator.Validate
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUserFlow businessflow.AdminUserFlow, collaborationFlow businessflow.CollaborationFlow, campaignFlow businessflow.CampaignFlow) *AdminHandler {
	return &AdminHandler{
		adminUserFlow:     adminUserFlow,
		collaborationFlow: collaborationFlow,
		campaignFlow:      campaignFlow,
		validator:         validator.New(),
	}
}

// ListPendingUsers returns registrations awaiting review
// @Summary List Pending Users
// @Tags Admin
// @Produce json
// @Security AdminBearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminListPendingUsersResponse} "Pending users"
// @Router /api/v1/admin/users/pending [get]
func (h *AdminHandler) ListPendingUsers(c fiber.Ctx) error {
	var pagination dto.PaginationRequest
	if err := c.Bind().Query(&pagination); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.adminUserFlow.ListPendingUsers(requestContext(c), pagination)
	if err != nil {
		log.Println("Pending user listing failed", err)
		return businessErrorResponse(c, err, "Failed to list pending users", "PENDING_USERS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Pending users retrieved", result)
}

// ApproveUser approves a pending registration
// @Summary Approve User
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminBearerAuth
// @Param request body dto.AdminUserDecisionRequest true "User to approve"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUserDecisionResponse} "User approved"
// @Failure 409 {object} dto.APIResponse "User is not pending"
// @Router /api/v1/admin/users/approve [post]
func (h *AdminHandler) ApproveUser(c fiber.Ctx) error {
	var req dto.AdminUserDecisionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.adminUserFlow.ApproveUser(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		return h.userDecisionError(c, err, "Failed to approve user", "USER_APPROVE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User approved", result)
}

// RejectUser rejects a pending registration
// @Summary Reject User
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminBearerAuth
// @Param request body dto.AdminUserDecisionRequest true "User to reject"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUserDecisionResponse} "User rejected"
// @Failure 409 {object} dto.APIResponse "User is not pending"
// @Router /api/v1/admin/users/reject [post]
func (h *AdminHandler) RejectUser(c fiber.Ctx) error {
	var req dto.AdminUserDecisionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.adminUserFlow.RejectUser(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		return h.userDecisionError(c, err, "Failed to reject user", "USER_REJECT_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User rejected", result)
}

// SuspendUser suspends an approved account
// @Summary Suspend User
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminBearerAuth
// @Param request body dto.AdminSuspendUserRequest true "User to suspend"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUserDecisionResponse} "User suspended"
// @Router /api/v1/admin/users/suspend [post]
func (h *AdminHandler) SuspendUser(c fiber.Ctx) error {
	var req dto.AdminSuspendUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.adminUserFlow.SuspendUser(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		return h.userDecisionError(c, err, "Failed to suspend user", "USER_SUSPEND_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "User suspended", result)
}

// Dashboard returns platform-wide counters for the admin panel
// @Summary Admin Dashboard
// @Tags Admin
// @Produce json
// @Security AdminBearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminDashboardResponse} "Dashboard"
// @Router /api/v1/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c fiber.Ctx) error {
	result, err := h.adminUserFlow.Dashboard(requestContext(c))
	if err != nil {
		log.Println("Dashboard failed", err)
		return businessErrorResponse(c, err, "Failed to load dashboard", "DASHBOARD_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Dashboard retrieved", result)
}

// UpdateRequestStatus moves a collaboration request through its review lifecycle
// @Summary Decide Collaboration Request
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminBearerAuth
// @Param uuid path string true "Request UUID"
// @Param request body dto.UpdateRequestStatusRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.CollaborationRequestDTO} "Status updated"
// @Failure 409 {object} dto.APIResponse "Illegal transition"
// @Router /api/v1/admin/collaborations/{uuid}/status [put]
func (h *AdminHandler) UpdateRequestStatus(c fiber.Ctx) error {
	var req dto.UpdateRequestStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.collaborationFlow.UpdateRequestStatus(requestContext(c), c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRequestNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Collaboration request not found", "REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsIllegalStatusTransition(err) {
			if be, ok := businessflow.AsBusinessError(err); ok {
				return errorResponse(c, fiber.StatusConflict, be.Message, be.Code, nil)
			}
			return errorResponse(c, fiber.StatusConflict, "Illegal status transition", "STATUS_TRANSITION_INVALID", nil)
		}

		log.Println("Request status update failed", err)
		return businessErrorResponse(c, err, "Failed to update request status", "REQUEST_STATUS_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Request status updated", result)
}

// ExportCampaigns streams an XLSX report of all campaigns and their requests
// @Summary Export Campaigns
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security AdminBearerAuth
// @Success 200 {file} file "XLSX workbook"
// @Router /api/v1/admin/campaigns/export [get]
func (h *AdminHandler) ExportCampaigns(c fiber.Ctx) error {
	filename, content, err := h.campaignFlow.ExportCampaignsXLSX(requestContext(c))
	if err != nil {
		log.Println("Campaign export failed", err)
		return businessErrorResponse(c, err, "Failed to export campaigns", "CAMPAIGN_EXPORT_FAILED")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(content)
}

func (h *AdminHandler) userDecisionError(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if businessflow.IsUserNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
	}
	if businessflow.IsUserNotPending(err) {
		return errorResponse(c, fiber.StatusConflict, "User is not awaiting review", "USER_NOT_PENDING", nil)
	}
	if businessflow.IsUserNotApproved(err) {
		return errorResponse(c, fiber.StatusConflict, "User is not approved", "USER_NOT_APPROVED", nil)
	}

	log.Println("Admin user decision failed", err)
	return businessErrorResponse(c, err, fallbackMessage, fallbackCode)
}
