// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	businessflow "github.com/zyromarketplace/zyro-backend/business_flow"
)

// AdminAuthHandler handles admin login behind the rotating captcha
type AdminAuthHandler struct {
	adminAuthFlow businessflow.AdminAuthFlow
	validator     *validator.Validate
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(adminAuthFlow businessflow.AdminAuthFlow) *AdminAuthHandler {
	return &AdminAuthHandler{
		adminAuthFlow: adminAuthFlow,
		validator:     validator.New(),
	}
}

// InitCaptcha issues a rotation captcha challenge
// @Summary Admin Captcha Init
// @Description Generate a rotation captcha challenge for admin login
// @Tags AdminAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminCaptchaInitResponse} "Challenge created"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/auth/captcha [post]
func (h *AdminAuthHandler) InitCaptcha(c fiber.Ctx) error {
	result, err := h.adminAuthFlow.InitCaptcha(requestContext(c))
	if err != nil {
		log.Println("Captcha init failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create captcha challenge", "CAPTCHA_INIT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Captcha challenge created", result)
}

// Login verifies the captcha answer together with admin credentials
// @Summary Admin Login
// @Description Verify captcha rotation angle and admin credentials
// @Tags AdminAuth
// @Accept json
// @Produce json
// @Param request body dto.AdminCaptchaVerifyRequest true "Captcha answer and credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse} "Login successful"
// @Failure 401 {object} dto.APIResponse "Invalid captcha or credentials"
// @Router /api/v1/admin/auth/login [post]
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req dto.AdminCaptchaVerifyRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.adminAuthFlow.Verify(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidCaptcha(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Captcha verification failed", "INVALID_CAPTCHA", nil)
		}
		if businessflow.IsAdminNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS", nil)
		}

		log.Println("Admin login failed", err)
		return businessErrorResponse(c, err, "Admin login failed", "ADMIN_LOGIN_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Login successful", result)
}
