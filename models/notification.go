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

// NotificationEvent identifies the logical event a notification describes.
// Each event maps to a fixed title/body template.
type NotificationEvent string

const (
	EventRequestSubmitted NotificationEvent = "collaboration_request_submitted"
	EventRequestApproved  NotificationEvent = "collaboration_request_approved"
	EventRequestRejected  NotificationEvent = "collaboration_request_rejected"
	EventRequestCompleted NotificationEvent = "collaboration_request_completed"
	EventRequestCancelled NotificationEvent = "collaboration_request_cancelled"

	// Company-facing counterparts of the decisions on their campaigns
	EventRequestApprovedCompany  NotificationEvent = "collaboration_request_approved_company"
	EventRequestCancelledCompany NotificationEvent = "collaboration_request_cancelled_company"

	EventContentDelivered    NotificationEvent = "content_delivered"
	EventContentReminder     NotificationEvent = "content_reminder"
	EventPaymentReminder     NotificationEvent = "payment_reminder"
	EventAccountApproved     NotificationEvent = "account_approved"
	EventAccountRejected     NotificationEvent = "account_rejected"
	EventNewChatMessage      NotificationEvent = "new_chat_message"
	EventSubscriptionStarted NotificationEvent = "subscription_started"
)

// NotificationStatus represents the delivery state of an outbox row
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Valid checks if the status is valid
func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSent, NotificationStatusFailed:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for NotificationStatus
func (s *NotificationStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = NotificationStatus(v)
	case []byte:
		*s = NotificationStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into NotificationStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for NotificationStatus
func (s NotificationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid NotificationStatus: %s", s)
	}
	return string(s), nil
}

// Notification is a durable outbox row. Status mutations enqueue rows in the
// same transaction as the state change; the dispatcher delivers them later,
// so a delivery failure never leaves the domain state ambiguous.
type Notification struct {
	ID     uint               `gorm:"primaryKey" json:"id"`
	UUID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uk_notifications_uuid" json:"uuid"`
	UserID *uint              `gorm:"index:idx_notifications_user_id" json:"user_id,omitempty"` // nil = admin audience
	Event  NotificationEvent  `gorm:"size:60;not null;index:idx_notifications_event" json:"event"`
	Status NotificationStatus `gorm:"type:notification_status;not null;default:'pending';index:idx_notifications_status" json:"status"`

	Title string          `gorm:"size:255;not null" json:"title"`
	Body  string          `gorm:"type:text;not null" json:"body"`
	Data  json.RawMessage `gorm:"type:jsonb" json:"data,omitempty"`

	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError *string    `gorm:"type:text" json:"last_error,omitempty"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_notifications_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate is called before creating a new record
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.UUID == uuid.Nil {
		n.UUID = uuid.New()
	}
	if n.Status == "" {
		n.Status = NotificationStatusPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = utils.UTCNow()
	}
	return nil
}

// NotificationFilter represents filter criteria for notification queries
type NotificationFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	UserID        *uint
	Event         *NotificationEvent
	Status        *NotificationStatus
	Unread        *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
