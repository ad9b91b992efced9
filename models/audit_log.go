// Package models contains domain entities and business models for the marketplace
package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       *uint           `gorm:"index:idx_audit_user_id" json:"user_id,omitempty"`
	User         *User           `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Action       string          `gorm:"type:audit_action_enum;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb;index:idx_audit_metadata,type:gin" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionSignupCompleted           = "signup_completed"
	AuditActionLoginSuccessful           = "login_successful"
	AuditActionLoginFailed               = "login_failed"
	AuditActionLogout                    = "logout"
	AuditActionUserApproved              = "user_approved"
	AuditActionUserRejected              = "user_rejected"
	AuditActionUserSuspended             = "user_suspended"
	AuditActionCampaignCreated           = "campaign_created"
	AuditActionCampaignUpdated           = "campaign_updated"
	AuditActionCampaignStatusChanged     = "campaign_status_changed"
	AuditActionRequestSubmitted          = "collaboration_request_submitted"
	AuditActionRequestSubmissionFailed   = "collaboration_request_submission_failed"
	AuditActionRequestStatusChanged      = "collaboration_request_status_changed"
	AuditActionContentDelivered          = "collaboration_content_delivered"
	AuditActionCheckoutSessionCreated    = "checkout_session_created"
	AuditActionCheckoutSessionFailed     = "checkout_session_failed"
	AuditActionSubscriptionActivated     = "subscription_activated"
	AuditActionSubscriptionCancelled     = "subscription_cancelled"
	AuditActionSubscriptionPaymentFailed = "subscription_payment_failed"
	AuditActionMessageSent               = "message_sent"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	UserID        *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
