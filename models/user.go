// Package models contains domain entities and business models for the marketplace
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserStatus represents the registration/approval status of a user
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusApproved  UserStatus = "approved"
	UserStatusRejected  UserStatus = "rejected"
	UserStatusSuspended UserStatus = "suspended"
)

// String returns the string representation of the status
func (s UserStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusPending, UserStatusApproved, UserStatusRejected, UserStatusSuspended:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for UserStatus
func (s *UserStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = UserStatus(v)
	case []byte:
		*s = UserStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into UserStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for UserStatus
func (s UserStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid UserStatus: %s", s)
	}
	return string(s), nil
}

// AudienceStats holds the per-platform audience breakdown reported by an influencer
type AudienceStats struct {
	AgeRanges map[string]float64 `json:"age_ranges,omitempty"`
	Gender    map[string]float64 `json:"gender,omitempty"`
	TopCities []string           `json:"top_cities,omitempty"`
}

// Value implements the driver.Valuer interface for AudienceStats
func (a AudienceStats) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface for AudienceStats
func (a *AudienceStats) Scan(value any) error {
	if value == nil {
		*a = AudienceStats{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AudienceStats", value)
	}

	return json.Unmarshal(bytes, a)
}

type User struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	AccountTypeID uint        `gorm:"not null;index:idx_users_account_type_id" json:"account_type_id"`
	AccountType   AccountType `gorm:"foreignKey:AccountTypeID;references:ID" json:"account_type,omitempty"`
	Status        UserStatus  `gorm:"type:user_status;not null;default:'pending';index:idx_users_status" json:"status"`

	// Common fields (required for all types)
	FullName     string `gorm:"size:255;not null" json:"full_name"`
	Email        string `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	Phone        string `gorm:"size:20;not null" json:"phone"`
	City         string `gorm:"size:100;not null;index:idx_users_city" json:"city"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // Never serialize password hash

	// Influencer fields
	InstagramUsername  *string        `gorm:"size:100" json:"instagram_username,omitempty"`
	InstagramFollowers *int           `json:"instagram_followers,omitempty"`
	TiktokUsername     *string        `gorm:"size:100" json:"tiktok_username,omitempty"`
	TiktokFollowers    *int           `json:"tiktok_followers,omitempty"`
	AudienceStats      *AudienceStats `gorm:"type:jsonb" json:"audience_stats,omitempty"`

	// Company fields
	BusinessName     *string `gorm:"size:120" json:"business_name,omitempty"`
	BusinessCategory *string `gorm:"size:60;index:idx_users_business_category" json:"business_category,omitempty"`
	ContactPerson    *string `gorm:"size:255" json:"contact_person,omitempty"`

	// Timestamps
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	LastLoginAt *time.Time `gorm:"index:idx_users_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	Sessions      []UserSession          `gorm:"foreignKey:UserID" json:"-"`
	AuditLogs     []AuditLog             `gorm:"foreignKey:UserID" json:"-"`
	Campaigns     []Campaign             `gorm:"foreignKey:CompanyID" json:"campaigns,omitempty"`
	Requests      []CollaborationRequest `gorm:"foreignKey:InfluencerID" json:"-"`
	Subscriptions []Subscription         `gorm:"foreignKey:CompanyID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID               *uint
	UUID             *uuid.UUID
	AccountTypeID    *uint
	AccountTypeName  *string
	Status           *UserStatus
	Email            *string
	Phone            *string
	City             *string
	BusinessCategory *string
	CreatedAfter     *time.Time
	CreatedBefore    *time.Time
	LastLoginAfter   *time.Time
	LastLoginBefore  *time.Time
}

func (u *User) IsInfluencer() bool {
	return u.AccountType.TypeName == AccountTypeInfluencer
}

func (u *User) IsCompany() bool {
	return u.AccountType.TypeName == AccountTypeCompany
}

// CanLogin reports whether the account passed admin approval and is not suspended.
func (u *User) CanLogin() bool {
	return u.Status == UserStatusApproved
}
