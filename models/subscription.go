package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// SubscriptionStatus represents the billing status of a company subscription
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// String returns the string representation of the status
func (s SubscriptionStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionStatusPending, SubscriptionStatusActive,
		SubscriptionStatusPastDue, SubscriptionStatusCancelled:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for SubscriptionStatus
func (s *SubscriptionStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SubscriptionStatus(v)
	case []byte:
		*s = SubscriptionStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SubscriptionStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SubscriptionStatus
func (s SubscriptionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SubscriptionStatus: %s", s)
	}
	return string(s), nil
}

// Subscription represents a company's recurring plan with the payment processor
type Subscription struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uk_subscriptions_uuid" json:"uuid"`
	CompanyID uint               `gorm:"not null;index:idx_subscriptions_company_id" json:"company_id"`
	Status    SubscriptionStatus `gorm:"type:subscription_status;not null;default:'pending';index:idx_subscriptions_status" json:"status"`

	PlanID       string `gorm:"size:60;not null" json:"plan_id"`
	MonthlyPrice int64  `gorm:"not null" json:"monthly_price"` // cents
	Currency     string `gorm:"size:3;not null;default:'eur'" json:"currency"`

	// Identifiers returned by the payment processor
	StripeCustomerID     *string `gorm:"size:255;index:idx_subscriptions_stripe_customer_id" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string `gorm:"size:255;uniqueIndex:uk_subscriptions_stripe_subscription_id" json:"stripe_subscription_id,omitempty"`

	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_subscriptions_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	Company  *User            `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Sessions []PaymentSession `gorm:"foreignKey:SubscriptionID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// BeforeCreate is called before creating a new record
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SubscriptionStatusPending
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (s *Subscription) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	s.UpdatedAt = &now
	return nil
}

// IsBillable reports whether the subscription grants marketplace access
func (s *Subscription) IsBillable() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusPastDue
}

// SubscriptionFilter represents filter criteria for subscription queries
type SubscriptionFilter struct {
	ID                   *uint
	UUID                 *uuid.UUID
	CompanyID            *uint
	Status               *SubscriptionStatus
	PlanID               *string
	StripeCustomerID     *string
	StripeSubscriptionID *string
	CreatedAfter         *time.Time
	CreatedBefore        *time.Time
}

// PaymentSessionStatus represents the state of a hosted checkout session
type PaymentSessionStatus string

const (
	PaymentSessionStatusCreated   PaymentSessionStatus = "created"
	PaymentSessionStatusCompleted PaymentSessionStatus = "completed"
	PaymentSessionStatusExpired   PaymentSessionStatus = "expired"
)

// Valid checks if the status is valid
func (s PaymentSessionStatus) Valid() bool {
	switch s {
	case PaymentSessionStatusCreated, PaymentSessionStatusCompleted, PaymentSessionStatusExpired:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PaymentSessionStatus
func (s *PaymentSessionStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = PaymentSessionStatus(v)
	case []byte:
		*s = PaymentSessionStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PaymentSessionStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PaymentSessionStatus
func (s PaymentSessionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid PaymentSessionStatus: %s", s)
	}
	return string(s), nil
}

// PaymentSession tracks one hosted checkout session round-trip. The company
// id, plan id and monthly price are mirrored into the processor's session
// metadata and read back on verification and webhooks.
type PaymentSession struct {
	ID             uint                 `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:uk_payment_sessions_uuid" json:"uuid"`
	SubscriptionID uint                 `gorm:"not null;index:idx_payment_sessions_subscription_id" json:"subscription_id"`
	CompanyID      uint                 `gorm:"not null;index:idx_payment_sessions_company_id" json:"company_id"`
	Status         PaymentSessionStatus `gorm:"type:payment_session_status;not null;default:'created'" json:"status"`

	StripeSessionID string  `gorm:"size:255;not null;uniqueIndex:uk_payment_sessions_stripe_session_id" json:"stripe_session_id"`
	CheckoutURL     string  `gorm:"type:text;not null" json:"checkout_url"`
	SuccessURL      string  `gorm:"type:text;not null" json:"success_url"`
	CancelURL       string  `gorm:"type:text;not null" json:"cancel_url"`
	AmountTotal     int64   `gorm:"not null" json:"amount_total"` // cents
	PaymentStatus   *string `gorm:"size:30" json:"payment_status,omitempty"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Relations
	Subscription *Subscription `gorm:"foreignKey:SubscriptionID;references:ID" json:"subscription,omitempty"`
}

func (PaymentSession) TableName() string {
	return "payment_sessions"
}

// BeforeCreate is called before creating a new record
func (p *PaymentSession) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PaymentSessionStatusCreated
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// PaymentSessionFilter represents filter criteria for payment session queries
type PaymentSessionFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	SubscriptionID  *uint
	CompanyID       *uint
	Status          *PaymentSessionStatus
	StripeSessionID *string
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
}
