// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CampaignRequirementsDTO carries the follower minimums of a campaign
type CampaignRequirementsDTO struct {
	MinInstagramFollowers *int `json:"min_instagram_followers,omitempty" validate:"omitempty,min=0" example:"5000"`
	MinTiktokFollowers    *int `json:"min_tiktok_followers,omitempty" validate:"omitempty,min=0" example:"2000"`
}

// ContentRequirementsDTO carries the deliverables a campaign expects
type ContentRequirementsDTO struct {
	InstagramStories int `json:"instagram_stories" validate:"min=0" example:"2"`
	TiktokVideos     int `json:"tiktok_videos" validate:"min=0" example:"1"`
	DeadlineHours    int `json:"deadline_hours" validate:"min=0" example:"72"`
}

// CreateCampaignRequest represents the payload to create a campaign
type CreateCampaignRequest struct {
	Title               string                  `json:"title" validate:"required,max=255" example:"Cena para dos en Malasaña"`
	Description         string                  `json:"description" validate:"required,max=5000"`
	City                string                  `json:"city" validate:"required,max=100" example:"Madrid"`
	Category            string                  `json:"category" validate:"required,max=100" example:"restaurantes"`
	OfferDescription    string                  `json:"offer_description" validate:"required,max=2000"`
	ImageURLs           []string                `json:"image_urls,omitempty" validate:"omitempty,max=10,dive,url"`
	Requirements        CampaignRequirementsDTO `json:"requirements"`
	ContentRequirements ContentRequirementsDTO  `json:"content_requirements"`
}

// UpdateCampaignRequest represents a partial campaign update
type UpdateCampaignRequest struct {
	Title               *string                  `json:"title,omitempty" validate:"omitempty,max=255"`
	Description         *string                  `json:"description,omitempty" validate:"omitempty,max=5000"`
	City                *string                  `json:"city,omitempty" validate:"omitempty,max=100"`
	Category            *string                  `json:"category,omitempty" validate:"omitempty,max=100"`
	OfferDescription    *string                  `json:"offer_description,omitempty" validate:"omitempty,max=2000"`
	ImageURLs           *[]string                `json:"image_urls,omitempty" validate:"omitempty,max=10,dive,url"`
	Requirements        *CampaignRequirementsDTO `json:"requirements,omitempty"`
	ContentRequirements *ContentRequirementsDTO  `json:"content_requirements,omitempty"`
}

// UpdateCampaignStatusRequest moves a campaign to a new status
type UpdateCampaignStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active paused completed" example:"active"`
}

// EligibilityDTO is the verdict of matching the viewer against a campaign
type EligibilityDTO struct {
	IsEligible          bool           `json:"is_eligible" example:"false"`
	MissingRequirements map[string]int `json:"missing_requirements"`
	Message             string         `json:"message" example:"Necesitas 2000 seguidores más en Instagram"`
}

// CampaignDTO represents campaign data for API responses
type CampaignDTO struct {
	ID                  uint                    `json:"id" example:"42"`
	UUID                string                  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CompanyID           uint                    `json:"company_id" example:"7"`
	CompanyName         string                  `json:"company_name,omitempty" example:"Restaurante La Plaza"`
	Status              string                  `json:"status" example:"active"`
	Title               string                  `json:"title"`
	Description         string                  `json:"description"`
	City                string                  `json:"city" example:"Madrid"`
	Category            string                  `json:"category" example:"restaurantes"`
	OfferDescription    string                  `json:"offer_description"`
	ImageURLs           []string                `json:"image_urls,omitempty"`
	Requirements        CampaignRequirementsDTO `json:"requirements"`
	RequirementsText    string                  `json:"requirements_text" example:"Mínimo 5000 seguidores en Instagram"`
	ContentRequirements ContentRequirementsDTO  `json:"content_requirements"`
	Eligibility         *EligibilityDTO         `json:"eligibility,omitempty"`
	CreatedAt           string                  `json:"created_at" example:"2025-01-15T10:30:00Z"`
	UpdatedAt           *string                 `json:"updated_at,omitempty"`
}

// ListCampaignsRequest filters the public campaign listing
type ListCampaignsRequest struct {
	PaginationRequest
	City     *string `json:"city,omitempty" query:"city" validate:"omitempty,max=100"`
	Category *string `json:"category,omitempty" query:"category" validate:"omitempty,max=100"`
}

// ListCampaignsResponse represents a page of campaigns
type ListCampaignsResponse struct {
	Campaigns  []CampaignDTO      `json:"campaigns"`
	Pagination PaginationResponse `json:"pagination"`
}
