// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/app/services"
)

// Locals keys set by the auth middleware for downstream handlers
const (
	LocalUserID      = "user_id"
	LocalAdminID     = "admin_id"
	LocalTokenID     = "token_id"
	LocalTokenClaims = "token_claims"
	LocalRequestID   = "request_id"
)

// AuthMiddleware handles JWT token validation for protected endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates user JWT tokens and stores the user id in Locals
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := bearerToken(c)
		if errResp != nil {
			return errResp
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			return unauthorized(c, tokenErrorCode(err), tokenErrorMessage(err))
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalTokenID, claims.TokenID)
		c.Locals(LocalTokenClaims, claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals(LocalRequestID, requestID)
		}

		return c.Next()
	}
}

// AdminAuthenticate validates admin JWT tokens and stores the admin id in Locals
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, errResp := bearerToken(c)
		if errResp != nil {
			return errResp
		}

		claims, err := m.tokenService.ValidateAdminToken(token)
		if err != nil {
			return unauthorized(c, tokenErrorCode(err), tokenErrorMessage(err))
		}

		c.Locals(LocalAdminID, claims.AdminID)
		c.Locals(LocalTokenID, claims.TokenID)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals(LocalRequestID, requestID)
		}

		return c.Next()
	}
}

// UserID reads the authenticated user id set by Authenticate
func UserID(c fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok
}

// AdminID reads the authenticated admin id set by AdminAuthenticate
func AdminID(c fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalAdminID).(uint)
	return id, ok
}

func bearerToken(c fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", unauthorized(c, "MISSING_AUTHORIZATION_HEADER", "Authorization header is required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", unauthorized(c, "INVALID_AUTHORIZATION_FORMAT", "Invalid authorization header format. Expected 'Bearer <token>'")
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", unauthorized(c, "MISSING_ACCESS_TOKEN", "Access token is required")
	}
	return token, nil
}

func tokenErrorCode(err error) string {
	switch {
	case errors.Is(err, services.ErrTokenExpired):
		return "TOKEN_EXPIRED"
	case errors.Is(err, services.ErrTokenInvalid):
		return "TOKEN_INVALID"
	case errors.Is(err, services.ErrTokenRevoked):
		return "TOKEN_REVOKED"
	default:
		return "TOKEN_VALIDATION_FAILED"
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrTokenExpired):
		return "Access token has expired"
	case errors.Is(err, services.ErrTokenInvalid):
		return "Invalid access token"
	case errors.Is(err, services.ErrTokenRevoked):
		return "Access token has been revoked"
	default:
		return "Token validation failed"
	}
}

func unauthorized(c fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error:   dto.ErrorDetail{Code: code},
	})
}
