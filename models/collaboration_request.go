package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// RequestStatus represents the lifecycle status of a collaboration request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// String returns the string representation of the status
func (s RequestStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
		RequestStatusCompleted, RequestStatusCancelled:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for RequestStatus
func (s *RequestStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = RequestStatus(v)
	case []byte:
		*s = RequestStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into RequestStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for RequestStatus
func (s RequestStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid RequestStatus: %s", s)
	}
	return string(s), nil
}

// allowedNextStates is the request status transition table. Terminal states
// (rejected, completed, cancelled) map to nothing and never transition further.
var allowedNextStates = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved: {RequestStatusCompleted, RequestStatusCancelled},
}

// CanTransitionTo checks the transition table before any status mutation
func (s RequestStatus) CanTransitionTo(newStatus RequestStatus) bool {
	for _, next := range allowedNextStates[s] {
		if next == newStatus {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from this status
func (s RequestStatus) IsTerminal() bool {
	return len(allowedNextStates[s]) == 0 && s.Valid()
}

// ReservationDetails holds booking data for venue-based collaborations
type ReservationDetails struct {
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Companions int       `json:"companions"`
}

// Value implements the driver.Valuer interface for ReservationDetails
func (d ReservationDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface for ReservationDetails
func (d *ReservationDetails) Scan(value any) error {
	return scanJSON(value, d, "ReservationDetails")
}

// DeliveryDetails holds shipping data for product-based collaborations
type DeliveryDetails struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Value implements the driver.Valuer interface for DeliveryDetails
func (d DeliveryDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface for DeliveryDetails
func (d *DeliveryDetails) Scan(value any) error {
	return scanJSON(value, d, "DeliveryDetails")
}

// ContentDelivery stores the URLs of delivered content assets
type ContentDelivery struct {
	InstagramStories []string  `json:"instagram_stories,omitempty"`
	TiktokVideos     []string  `json:"tiktok_videos,omitempty"`
	DeliveredAt      time.Time `json:"delivered_at"`
}

// HasAssets reports whether at least one content asset was delivered
func (c ContentDelivery) HasAssets() bool {
	return len(c.InstagramStories) > 0 || len(c.TiktokVideos) > 0
}

// Value implements the driver.Valuer interface for ContentDelivery
func (c ContentDelivery) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for ContentDelivery
func (c *ContentDelivery) Scan(value any) error {
	return scanJSON(value, c, "ContentDelivery")
}

func scanJSON(value any, dst any, typeName string) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, typeName)
	}

	return json.Unmarshal(bytes, dst)
}

// CollaborationRequest links one influencer to one campaign and carries the
// status lifecycle mutated by admin/company decisions and content delivery.
type CollaborationRequest struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:uk_collaboration_requests_uuid" json:"uuid"`
	CampaignID   uint          `gorm:"not null;index:idx_collaboration_requests_campaign_id" json:"campaign_id"`
	InfluencerID uint          `gorm:"not null;index:idx_collaboration_requests_influencer_id" json:"influencer_id"`
	Status       RequestStatus `gorm:"type:request_status;not null;default:'pending';index:idx_collaboration_requests_status" json:"status"`

	RequestDate     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"request_date"`
	ProposedContent string    `gorm:"type:text" json:"proposed_content"`

	// Exactly one of the two detail blocks is present, depending on whether
	// the campaign is venue-based or product-based.
	ReservationDetails *ReservationDetails `gorm:"type:jsonb" json:"reservation_details,omitempty"`
	DeliveryDetails    *DeliveryDetails    `gorm:"type:jsonb" json:"delivery_details,omitempty"`

	ContentDelivered *ContentDelivery `gorm:"type:jsonb" json:"content_delivered,omitempty"`
	AdminNotes       *string          `gorm:"type:text" json:"admin_notes,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_collaboration_requests_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Campaign   *Campaign `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	Influencer *User     `gorm:"foreignKey:InfluencerID;references:ID" json:"influencer,omitempty"`
}

// TableName returns the table name for the model
func (CollaborationRequest) TableName() string {
	return "collaboration_requests"
}

// BeforeCreate is called before creating a new record
func (r *CollaborationRequest) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RequestStatusPending
	}
	if r.RequestDate.IsZero() {
		r.RequestDate = utils.UTCNow()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (r *CollaborationRequest) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	r.UpdatedAt = &now
	return nil
}

// CollaborationRequestFilter represents filter criteria for request queries
type CollaborationRequestFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CampaignID    *uint
	InfluencerID  *uint
	Status        *RequestStatus
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// GetStatusDisplayName returns a human-readable status name
func (r *CollaborationRequest) GetStatusDisplayName() string {
	switch r.Status {
	case RequestStatusPending:
		return "Pendiente"
	case RequestStatusApproved:
		return "Aprobada"
	case RequestStatusRejected:
		return "Rechazada"
	case RequestStatusCompleted:
		return "Completada"
	case RequestStatusCancelled:
		return "Cancelada"
	default:
		return "Unknown"
	}
}
