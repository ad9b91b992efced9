package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// CampaignStatus represents the status of a campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// String returns the string representation of the status
func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// CampaignRequirements holds the minimum follower counts an influencer must
// reach to apply. An absent minimum means the platform imposes no bar.
type CampaignRequirements struct {
	MinInstagramFollowers *int `json:"min_instagram_followers,omitempty"`
	MinTiktokFollowers    *int `json:"min_tiktok_followers,omitempty"`
}

// Value implements the driver.Valuer interface for CampaignRequirements
func (r CampaignRequirements) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for CampaignRequirements
func (r *CampaignRequirements) Scan(value any) error {
	if value == nil {
		*r = CampaignRequirements{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CampaignRequirements", value)
	}

	return json.Unmarshal(bytes, r)
}

// ContentRequirements describes what the influencer has to deliver and by when.
type ContentRequirements struct {
	InstagramStories int `json:"instagram_stories"`
	TiktokVideos     int `json:"tiktok_videos"`
	DeadlineHours    int `json:"deadline_hours"`
}

// Value implements the driver.Valuer interface for ContentRequirements
func (r ContentRequirements) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for ContentRequirements
func (r *ContentRequirements) Scan(value any) error {
	if value == nil {
		*r = ContentRequirements{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ContentRequirements", value)
	}

	return json.Unmarshal(bytes, r)
}

// Campaign represents a company's collaboration offer
type Campaign struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	CompanyID uint           `gorm:"not null;index:idx_campaigns_company_id" json:"company_id"`
	Status    CampaignStatus `gorm:"type:campaign_status;not null;default:'draft';index:idx_campaigns_status" json:"status"`

	Title       string `gorm:"size:150;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	City        string `gorm:"size:100;not null;index:idx_campaigns_city" json:"city"`
	Category    string `gorm:"size:60;not null;index:idx_campaigns_category" json:"category"`

	// What the company offers in the barter (meal, stay, treatment, ...)
	OfferDescription string `gorm:"type:text" json:"offer_description"`

	// Promotional images shown in the app listing
	ImageURLs pq.StringArray `gorm:"type:text[]" json:"image_urls,omitempty"`

	Requirements        CampaignRequirements `gorm:"type:jsonb;not null" json:"requirements"`
	ContentRequirements ContentRequirements  `gorm:"type:jsonb;not null" json:"content_requirements"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"index:idx_campaigns_updated_at" json:"updated_at,omitempty"`

	// Relations
	Company  *User                  `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Requests []CollaborationRequest `gorm:"foreignKey:CampaignID" json:"requests,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// IsEditable checks if the campaign can still be edited by admin tooling
func (c *Campaign) IsEditable() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusPaused
}

// IsOpenForRequests reports whether influencers may apply
func (c *Campaign) IsOpenForRequests() bool {
	return c.Status == CampaignStatusActive
}

// CanTransitionTo checks if the campaign can transition to the given status
func (c *Campaign) CanTransitionTo(newStatus CampaignStatus) bool {
	switch c.Status {
	case CampaignStatusDraft:
		return newStatus == CampaignStatusActive
	case CampaignStatusActive:
		return newStatus == CampaignStatusPaused || newStatus == CampaignStatusCompleted
	case CampaignStatusPaused:
		return newStatus == CampaignStatusActive || newStatus == CampaignStatusCompleted
	default:
		return false
	}
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	CompanyID     *uint
	Status        *CampaignStatus
	Title         *string
	City          *string
	Category      *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}

// GetStatusDisplayName returns a human-readable status name
func (c *Campaign) GetStatusDisplayName() string {
	switch c.Status {
	case CampaignStatusDraft:
		return "Draft"
	case CampaignStatusActive:
		return "Active"
	case CampaignStatusPaused:
		return "Paused"
	case CampaignStatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}
