// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// SignupRequest represents the registration form data
type SignupRequest struct {
	// Account type selection
	AccountType string `json:"account_type" validate:"required,oneof=influencer company" example:"influencer"`

	// Common fields (required for all types)
	FullName        string `json:"full_name" validate:"required,max=255" example:"María García"`
	Email           string `json:"email" validate:"required,email,max=255" example:"maria@example.com"`
	Phone           string `json:"phone" validate:"required,min=9,max=20" example:"+34600111222"`
	City            string `json:"city" validate:"required,max=100" example:"Madrid"`
	Password        string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"SecurePass123!"`

	// Influencer fields (required for influencer accounts)
	InstagramUsername  *string `json:"instagram_username,omitempty" validate:"omitempty,max=64"`
	InstagramFollowers *int    `json:"instagram_followers,omitempty" validate:"omitempty,min=0"`
	TiktokUsername     *string `json:"tiktok_username,omitempty" validate:"omitempty,max=64"`
	TiktokFollowers    *int    `json:"tiktok_followers,omitempty" validate:"omitempty,min=0"`

	// Company fields (required for company accounts)
	BusinessName     *string `json:"business_name,omitempty" validate:"omitempty,max=255"`
	BusinessCategory *string `json:"business_category,omitempty" validate:"omitempty,max=100"`
	ContactPerson    *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
}

// SignupResponse represents the response after successful registration
type SignupResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"maria@example.com"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresIn    int       `json:"expires_in" example:"3600"`
	ExpiresAt    time.Time `json:"expires_at" example:"2025-01-15T16:30:00Z"`
	User         UserDTO   `json:"user"`
}

// RefreshTokenRequest represents the request to refresh an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserDTO represents user data for API responses
type UserDTO struct {
	ID          uint   `json:"id" example:"123"`
	UUID        string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	AccountType string `json:"account_type" example:"influencer"`
	Status      string `json:"status" example:"approved"`
	FullName    string `json:"full_name" example:"María García"`
	Email       string `json:"email" example:"maria@example.com"`
	Phone       string `json:"phone" example:"+34600111222"`
	City        string `json:"city" example:"Madrid"`

	InstagramUsername  *string `json:"instagram_username,omitempty"`
	InstagramFollowers *int    `json:"instagram_followers,omitempty"`
	TiktokUsername     *string `json:"tiktok_username,omitempty"`
	TiktokFollowers    *int    `json:"tiktok_followers,omitempty"`

	BusinessName     *string `json:"business_name,omitempty"`
	BusinessCategory *string `json:"business_category,omitempty"`
	ContactPerson    *string `json:"contact_person,omitempty"`

	CreatedAt  string  `json:"created_at" example:"2025-01-15T10:30:00Z"`
	ApprovedAt *string `json:"approved_at,omitempty"`
}
