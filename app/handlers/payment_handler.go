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

// PaymentHandler handles subscription and Stripe payment HTTP endpoints
type PaymentHandler struct {
	subscriptionFlow businessflow.SubscriptionFlow
	validator        *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(subscriptionFlow businessflow.SubscriptionFlow) *PaymentHandler {
	return &PaymentHandler{
		subscriptionFlow: subscriptionFlow,
		validator:        validator.New(),
	}
}

// ListPlans returns the subscription plan catalog
// @Summary List Plans
// @Tags Payments
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListPlansResponse} "Plans"
// @Router /api/v1/stripe/plans [get]
func (h *PaymentHandler) ListPlans(c fiber.Ctx) error {
	result := h.subscriptionFlow.ListPlans(requestContext(c))
	return successResponse(c, fiber.StatusOK, "Plans retrieved", result)
}

// CreateCheckoutSession starts a Stripe checkout for a subscription plan
// @Summary Create Checkout Session
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCheckoutSessionRequest true "Plan selection"
// @Success 201 {object} dto.APIResponse{data=dto.CreateCheckoutSessionResponse} "Checkout session"
// @Failure 400 {object} dto.APIResponse "Unknown plan"
// @Router /api/v1/stripe/checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateCheckoutSessionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.subscriptionFlow.CreateCheckoutSession(requestContext(c), companyID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUnknownPlan(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown subscription plan", "UNKNOWN_PLAN", nil)
		}
		if businessflow.IsNotCompany(err) {
			return errorResponse(c, fiber.StatusForbidden, "Only company accounts can subscribe", "NOT_COMPANY", nil)
		}

		log.Println("Checkout session creation failed", err)
		return businessErrorResponse(c, err, "Failed to create checkout session", "CHECKOUT_SESSION_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Checkout session created", result)
}

// VerifyCheckout confirms a checkout session's payment state
// @Summary Verify Payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerifyCheckoutSessionRequest true "Session reference"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyCheckoutSessionResponse} "Verification result"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /api/v1/stripe/verify-payment [post]
func (h *PaymentHandler) VerifyCheckout(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.VerifyCheckoutSessionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.subscriptionFlow.VerifyCheckoutSession(requestContext(c), companyID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPaymentSessionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Payment session not found", "PAYMENT_SESSION_NOT_FOUND", nil)
		}

		log.Println("Payment verification failed", err)
		return businessErrorResponse(c, err, "Failed to verify payment", "PAYMENT_VERIFY_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Payment verified", result)
}

// SubscriptionInfo returns the company's current subscription
// @Summary Subscription Info
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SubscriptionDTO} "Subscription"
// @Failure 404 {object} dto.APIResponse "No subscription"
// @Router /api/v1/stripe/subscription-info [get]
func (h *PaymentHandler) SubscriptionInfo(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.subscriptionFlow.SubscriptionInfo(requestContext(c), companyID)
	if err != nil {
		if businessflow.IsSubscriptionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "No subscription found", "SUBSCRIPTION_NOT_FOUND", nil)
		}

		log.Println("Subscription info failed", err)
		return businessErrorResponse(c, err, "Failed to load subscription", "SUBSCRIPTION_INFO_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Subscription retrieved", result)
}

// CancelSubscription cancels the company's billable subscription
// @Summary Cancel Subscription
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SubscriptionDTO} "Cancelled subscription"
// @Failure 409 {object} dto.APIResponse "No active subscription"
// @Router /api/v1/stripe/cancel-subscription [post]
func (h *PaymentHandler) CancelSubscription(c fiber.Ctx) error {
	companyID, ok := middleware.UserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.subscriptionFlow.CancelSubscription(requestContext(c), companyID, clientMetadata(c))
	if err != nil {
		if businessflow.IsSubscriptionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "No subscription found", "SUBSCRIPTION_NOT_FOUND", nil)
		}
		if businessflow.IsSubscriptionNotActive(err) {
			return errorResponse(c, fiber.StatusConflict, "Subscription is not active", "SUBSCRIPTION_NOT_ACTIVE", nil)
		}

		log.Println("Subscription cancellation failed", err)
		return businessErrorResponse(c, err, "Failed to cancel subscription", "SUBSCRIPTION_CANCEL_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Subscription cancelled", result)
}

// Webhook ingests Stripe webhook events
// @Summary Stripe Webhook
// @Description Verifies the Stripe-Signature header and applies the event to the local subscription state.
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse "Event processed"
// @Failure 400 {object} dto.APIResponse "Invalid signature"
// @Router /webhook/stripe [post]
func (h *PaymentHandler) Webhook(c fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	if err := h.subscriptionFlow.HandleWebhook(requestContext(c), payload, signature); err != nil {
		if businessflow.IsInvalidWebhookSignature(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid webhook signature", "INVALID_WEBHOOK_SIGNATURE", nil)
		}

		log.Println("Webhook processing failed", err)
		return businessErrorResponse(c, err, "Failed to process webhook", "WEBHOOK_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Event processed", nil)
}
