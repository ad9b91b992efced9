// Package businessflow contains the business logic for the application.
package businessflow

import (
	"encoding/json"
	"time"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
		Additional: make(map[string]string),
	}
}

// AddDeviceInfo adds device information to the metadata
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToUserDTO converts a user model to UserDTO for API responses
func ToUserDTO(user models.User) dto.UserDTO {
	d := dto.UserDTO{
		ID:          user.ID,
		UUID:        user.UUID.String(),
		AccountType: user.AccountType.TypeName,
		Status:      user.Status.String(),
		FullName:    user.FullName,
		Email:       user.Email,
		Phone:       user.Phone,
		City:        user.City,

		InstagramUsername:  user.InstagramUsername,
		InstagramFollowers: user.InstagramFollowers,
		TiktokUsername:     user.TiktokUsername,
		TiktokFollowers:    user.TiktokFollowers,

		BusinessName:     user.BusinessName,
		BusinessCategory: user.BusinessCategory,
		ContactPerson:    user.ContactPerson,

		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.ApprovedAt != nil {
		approved := user.ApprovedAt.Format(time.RFC3339)
		d.ApprovedAt = &approved
	}

	return d
}

// ToCampaignDTO converts a campaign model to CampaignDTO. Eligibility is
// attached separately when the viewer is an influencer.
func ToCampaignDTO(campaign models.Campaign) dto.CampaignDTO {
	d := dto.CampaignDTO{
		ID:               campaign.ID,
		UUID:             campaign.UUID.String(),
		CompanyID:        campaign.CompanyID,
		Status:           campaign.Status.String(),
		Title:            campaign.Title,
		Description:      campaign.Description,
		City:             campaign.City,
		Category:         campaign.Category,
		OfferDescription: campaign.OfferDescription,
		ImageURLs:        []string(campaign.ImageURLs),
		Requirements: dto.CampaignRequirementsDTO{
			MinInstagramFollowers: campaign.Requirements.MinInstagramFollowers,
			MinTiktokFollowers:    campaign.Requirements.MinTiktokFollowers,
		},
		RequirementsText: RequirementsText(campaign.Requirements),
		ContentRequirements: dto.ContentRequirementsDTO{
			InstagramStories: campaign.ContentRequirements.InstagramStories,
			TiktokVideos:     campaign.ContentRequirements.TiktokVideos,
			DeadlineHours:    campaign.ContentRequirements.DeadlineHours,
		},
		CreatedAt: campaign.CreatedAt.Format(time.RFC3339),
	}
	if campaign.Company != nil {
		if campaign.Company.BusinessName != nil {
			d.CompanyName = *campaign.Company.BusinessName
		} else {
			d.CompanyName = campaign.Company.FullName
		}
	}
	if campaign.UpdatedAt != nil {
		updated := campaign.UpdatedAt.Format(time.RFC3339)
		d.UpdatedAt = &updated
	}

	return d
}

// ToEligibilityDTO converts an eligibility verdict for API responses
func ToEligibilityDTO(result EligibilityResult) dto.EligibilityDTO {
	missing := make(map[string]int)
	if result.MissingRequirements.Instagram != nil {
		missing["instagram"] = *result.MissingRequirements.Instagram
	}
	if result.MissingRequirements.Tiktok != nil {
		missing["tiktok"] = *result.MissingRequirements.Tiktok
	}

	return dto.EligibilityDTO{
		IsEligible:          result.IsEligible,
		MissingRequirements: missing,
		Message:             result.Message,
	}
}

// ToCollaborationRequestDTO converts a request model to its DTO
func ToCollaborationRequestDTO(request models.CollaborationRequest) dto.CollaborationRequestDTO {
	d := dto.CollaborationRequestDTO{
		ID:              request.ID,
		UUID:            request.UUID.String(),
		InfluencerID:    request.InfluencerID,
		Status:          request.Status.String(),
		StatusDisplay:   request.GetStatusDisplayName(),
		RequestDate:     request.RequestDate.Format(time.RFC3339),
		ProposedContent: request.ProposedContent,
		AdminNotes:      request.AdminNotes,
		CreatedAt:       request.CreatedAt.Format(time.RFC3339),
	}
	if request.Campaign != nil {
		d.CampaignUUID = request.Campaign.UUID.String()
		d.CampaignTitle = request.Campaign.Title
	}
	if request.Influencer != nil {
		d.InfluencerName = request.Influencer.FullName
	}
	if request.ReservationDetails != nil {
		d.ReservationDetails = &dto.ReservationDetailsDTO{
			Date:       request.ReservationDetails.Date.Format("2006-01-02"),
			Time:       request.ReservationDetails.Time,
			Companions: request.ReservationDetails.Companions,
		}
	}
	if request.DeliveryDetails != nil {
		d.DeliveryDetails = &dto.DeliveryDetailsDTO{
			Address: request.DeliveryDetails.Address,
			Phone:   request.DeliveryDetails.Phone,
		}
	}
	if request.ContentDelivered != nil {
		d.ContentDelivered = &dto.ContentDeliveryDTO{
			InstagramStories: request.ContentDelivered.InstagramStories,
			TiktokVideos:     request.ContentDelivered.TiktokVideos,
			DeliveredAt:      request.ContentDelivered.DeliveredAt.Format(time.RFC3339),
		}
	}
	if request.UpdatedAt != nil {
		updated := request.UpdatedAt.Format(time.RFC3339)
		d.UpdatedAt = &updated
	}

	return d
}

// ToSubscriptionDTO converts a subscription model to its DTO
func ToSubscriptionDTO(subscription models.Subscription) dto.SubscriptionDTO {
	d := dto.SubscriptionDTO{
		ID:           subscription.ID,
		UUID:         subscription.UUID.String(),
		PlanID:       subscription.PlanID,
		Status:       subscription.Status.String(),
		MonthlyPrice: subscription.MonthlyPrice,
		Currency:     subscription.Currency,
		CreatedAt:    subscription.CreatedAt.Format(time.RFC3339),
	}
	if subscription.CurrentPeriodEnd != nil {
		end := subscription.CurrentPeriodEnd.Format(time.RFC3339)
		d.CurrentPeriodEnd = &end
	}
	if subscription.CancelledAt != nil {
		cancelled := subscription.CancelledAt.Format(time.RFC3339)
		d.CancelledAt = &cancelled
	}

	return d
}

// ToNotificationDTO converts a notification model to its DTO
func ToNotificationDTO(notification models.Notification) dto.NotificationDTO {
	d := dto.NotificationDTO{
		ID:        notification.ID,
		UUID:      notification.UUID.String(),
		Event:     string(notification.Event),
		Title:     notification.Title,
		Body:      notification.Body,
		CreatedAt: notification.CreatedAt.Format(time.RFC3339),
	}
	if len(notification.Data) > 0 {
		var data map[string]any
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			d.Data = data
		}
	}
	if notification.ReadAt != nil {
		read := notification.ReadAt.Format(time.RFC3339)
		d.ReadAt = &read
	}

	return d
}

// ToMessageDTO converts a message model to its DTO
func ToMessageDTO(message models.Message) dto.MessageDTO {
	d := dto.MessageDTO{
		ID:        message.ID,
		UUID:      message.UUID.String(),
		SenderID:  message.SenderID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}
	if message.ReadAt != nil {
		read := message.ReadAt.Format(time.RFC3339)
		d.ReadAt = &read
	}

	return d
}
