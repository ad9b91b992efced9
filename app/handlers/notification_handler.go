// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/app/middleware"
	businessflow "github.com/zyromarketplace/zyro-backend/business_flow"
)

// NotificationHandler handles notification HTTP endpoints
type NotificationHandler struct {
	notificationFlow businessflow.NotificationFlow
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationFlow businessflow.NotificationFlow) *NotificationHandler {
	return &NotificationHandler{notificationFlow: notificationFlow}
}

// List returns the caller's notifications with an unread count
// @Summary List Notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListNotificationsResponse} "Notifications"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var pagination dto.PaginationRequest
	if err := c.Bind().Query(&pagination); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.notificationFlow.ListNotifications(requestContext(c), userID, pagination)
	if err != nil {
		log.Println("Notification listing failed", err)
		return businessErrorResponse(c, err, "Failed to list notifications", "NOTIFICATION_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Notifications retrieved", result)
}

// MarkRead marks a single notification as read
// @Summary Mark Notification Read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse "Marked read"
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid notification ID", "INVALID_REQUEST", nil)
	}

	if err := h.notificationFlow.MarkRead(requestContext(c), userID, uint(id)); err != nil {
		log.Println("Notification mark read failed", err)
		return businessErrorResponse(c, err, "Failed to mark notification read", "NOTIFICATION_MARK_READ_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Notification marked read", nil)
}
