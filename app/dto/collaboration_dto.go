// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ReservationDetailsDTO carries booking details for venue campaigns
type ReservationDetailsDTO struct {
	Date       string `json:"date" validate:"required" example:"2025-02-20"`
	Time       string `json:"time" validate:"required" example:"20:30"`
	Companions int    `json:"companions" validate:"min=0,max=10" example:"1"`
}

// DeliveryDetailsDTO carries shipping details for product campaigns
type DeliveryDetailsDTO struct {
	Address string `json:"address" validate:"required,max=500"`
	Phone   string `json:"phone" validate:"required,min=9,max=20" example:"+34600111222"`
}

// SubmitCollaborationRequest represents an influencer applying to a campaign.
// Exactly one of reservation_details or delivery_details must be present.
type SubmitCollaborationRequest struct {
	CampaignUUID       string                 `json:"campaign_uuid" validate:"required,uuid"`
	ProposedContent    string                 `json:"proposed_content" validate:"required,max=2000"`
	ReservationDetails *ReservationDetailsDTO `json:"reservation_details,omitempty"`
	DeliveryDetails    *DeliveryDetailsDTO    `json:"delivery_details,omitempty"`
}

// UpdateRequestStatusRequest moves a collaboration request to a new status
type UpdateRequestStatusRequest struct {
	Status     string  `json:"status" validate:"required,oneof=approved rejected completed cancelled" example:"approved"`
	AdminNotes *string `json:"admin_notes,omitempty" validate:"omitempty,max=1000"`
}

// DeliverContentRequest represents the influencer submitting content assets
type DeliverContentRequest struct {
	InstagramStories []string `json:"instagram_stories,omitempty" validate:"omitempty,dive,url"`
	TiktokVideos     []string `json:"tiktok_videos,omitempty" validate:"omitempty,dive,url"`
}

// ContentDeliveryDTO represents delivered content in responses
type ContentDeliveryDTO struct {
	InstagramStories []string `json:"instagram_stories,omitempty"`
	TiktokVideos     []string `json:"tiktok_videos,omitempty"`
	DeliveredAt      string   `json:"delivered_at" example:"2025-02-21T18:00:00Z"`
}

// CollaborationRequestDTO represents a collaboration request for API responses
type CollaborationRequestDTO struct {
	ID                 uint                   `json:"id" example:"15"`
	UUID               string                 `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CampaignUUID       string                 `json:"campaign_uuid,omitempty"`
	CampaignTitle      string                 `json:"campaign_title,omitempty"`
	InfluencerID       uint                   `json:"influencer_id" example:"123"`
	InfluencerName     string                 `json:"influencer_name,omitempty"`
	Status             string                 `json:"status" example:"pending"`
	StatusDisplay      string                 `json:"status_display" example:"Pendiente"`
	RequestDate        string                 `json:"request_date" example:"2025-02-10T12:00:00Z"`
	ProposedContent    string                 `json:"proposed_content"`
	ReservationDetails *ReservationDetailsDTO `json:"reservation_details,omitempty"`
	DeliveryDetails    *DeliveryDetailsDTO    `json:"delivery_details,omitempty"`
	ContentDelivered   *ContentDeliveryDTO    `json:"content_delivered,omitempty"`
	AdminNotes         *string                `json:"admin_notes,omitempty"`
	CreatedAt          string                 `json:"created_at" example:"2025-02-10T12:00:00Z"`
	UpdatedAt          *string                `json:"updated_at,omitempty"`
}

// CollaborationHistoryResponse buckets an influencer's requests for the
// history screen.
type CollaborationHistoryResponse struct {
	Proximos   []CollaborationRequestDTO `json:"proximos"`
	Pasados    []CollaborationRequestDTO `json:"pasados"`
	Cancelados []CollaborationRequestDTO `json:"cancelados"`
}

// ListRequestsResponse represents a page of collaboration requests
type ListRequestsResponse struct {
	Requests   []CollaborationRequestDTO `json:"requests"`
	Pagination PaginationResponse        `json:"pagination"`
}
