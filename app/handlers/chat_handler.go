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

// ChatHandler handles chat HTTP endpoints
type ChatHandler struct {
	chatFlow  businessflow.ChatFlow
	validator *validator.Validate
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatFlow businessflow.ChatFlow) *ChatHandler {
	return &ChatHandler{
		chatFlow:  chatFlow,
		validator: validator.New(),
	}
}

// StartConversation opens or reuses a conversation with another user
// @Summary Start Conversation
// @Description Opens a conversation between an influencer and a company, optionally tied to a campaign. Reuses an existing one for the same pair.
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartConversationRequest true "Peer and optional campaign"
// @Success 201 {object} dto.APIResponse{data=dto.ConversationDTO} "Conversation"
// @Failure 400 {object} dto.APIResponse "Invalid pairing"
// @Router /api/v1/chat/conversations [post]
func (h *ChatHandler) StartConversation(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.StartConversationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.chatFlow.StartConversation(requestContext(c), userID, &req)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsSelfConversation(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Cannot start a conversation with yourself", "SELF_CONVERSATION", nil)
		}
		if businessflow.IsConversationAccessDenied(err) {
			if be, ok := businessflow.AsBusinessError(err); ok {
				return errorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
			}
			return errorResponse(c, fiber.StatusBadRequest, "Conversation not allowed", "CONVERSATION_PAIR_INVALID", nil)
		}
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Conversation start failed", err)
		return businessErrorResponse(c, err, "Failed to start conversation", "CONVERSATION_START_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Conversation ready", result)
}

// SendMessage appends a message to a conversation
// @Summary Send Message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Conversation UUID"
// @Param request body dto.SendMessageRequest true "Message body"
// @Success 201 {object} dto.APIResponse{data=dto.MessageDTO} "Message sent"
// @Failure 403 {object} dto.APIResponse "Not a participant"
// @Router /api/v1/chat/conversations/{uuid}/messages [post]
func (h *ChatHandler) SendMessage(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.SendMessageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.chatFlow.SendMessage(requestContext(c), userID, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsConversationNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Conversation not found", "CONVERSATION_NOT_FOUND", nil)
		}
		if businessflow.IsConversationAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "You are not a participant of this conversation", "CONVERSATION_ACCESS_DENIED", nil)
		}
		if businessflow.IsMessageBodyRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Message body is required", "MESSAGE_BODY_REQUIRED", nil)
		}

		log.Println("Message send failed", err)
		return businessErrorResponse(c, err, "Failed to send message", "MESSAGE_SEND_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Message sent", result)
}

// ListConversations returns the caller's conversations, most recent first
// @Summary List Conversations
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ListConversationsResponse} "Conversations"
// @Router /api/v1/chat/conversations [get]
func (h *ChatHandler) ListConversations(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var pagination dto.PaginationRequest
	if err := c.Bind().Query(&pagination); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.chatFlow.ListConversations(requestContext(c), userID, pagination)
	if err != nil {
		log.Println("Conversation listing failed", err)
		return businessErrorResponse(c, err, "Failed to list conversations", "CONVERSATION_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Conversations retrieved", result)
}

// ListMessages returns a conversation's messages and marks them read
// @Summary List Messages
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Conversation UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListMessagesResponse} "Messages"
// @Router /api/v1/chat/conversations/{uuid}/messages [get]
func (h *ChatHandler) ListMessages(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var pagination dto.PaginationRequest
	if err := c.Bind().Query(&pagination); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.chatFlow.ListMessages(requestContext(c), userID, c.Params("uuid"), pagination)
	if err != nil {
		if businessflow.IsConversationNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Conversation not found", "CONVERSATION_NOT_FOUND", nil)
		}
		if businessflow.IsConversationAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "You are not a participant of this conversation", "CONVERSATION_ACCESS_DENIED", nil)
		}

		log.Println("Message listing failed", err)
		return businessErrorResponse(c, err, "Failed to list messages", "MESSAGE_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Messages retrieved", result)
}
