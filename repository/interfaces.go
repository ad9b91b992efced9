// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/zyromarketplace/zyro-backend/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AccountTypeRepository defines operations for account types
type AccountTypeRepository interface {
	Repository[models.AccountType, models.AccountTypeFilter]
	ByTypeName(ctx context.Context, typeName string) (*models.AccountType, error)
}

// UserRepository defines operations for marketplace users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	Update(ctx context.Context, user models.User) error
	UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	ListPendingApproval(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// UserSessionRepository defines operations for user sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.UserSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.UserSession, error)
	ExpireSession(ctx context.Context, sessionID uint) error
	ExpireAllUserSessions(ctx context.Context, userID uint) error
}

// AdminRepository defines operations for admin accounts
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	ByCompanyID(ctx context.Context, companyID uint, limit, offset int) ([]*models.Campaign, error)
	ByStatus(ctx context.Context, status models.CampaignStatus, limit, offset int) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign models.Campaign) error
	UpdateStatus(ctx context.Context, id uint, status models.CampaignStatus) error
}

// CollaborationRequestRepository defines operations for collaboration requests
type CollaborationRequestRepository interface {
	Repository[models.CollaborationRequest, models.CollaborationRequestFilter]
	ByUUID(ctx context.Context, uuid string) (*models.CollaborationRequest, error)
	ByInfluencerID(ctx context.Context, influencerID uint, limit, offset int) ([]*models.CollaborationRequest, error)
	ByCampaignID(ctx context.Context, campaignID uint, limit, offset int) ([]*models.CollaborationRequest, error)
	Update(ctx context.Context, request models.CollaborationRequest) error
	HasOpenRequest(ctx context.Context, influencerID, campaignID uint) (bool, error)
	ListApprovedWithDeadlineBefore(ctx context.Context, deadline time.Time) ([]*models.CollaborationRequest, error)
}

// SubscriptionRepository defines operations for company subscriptions
type SubscriptionRepository interface {
	Repository[models.Subscription, models.SubscriptionFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Subscription, error)
	ByCompanyID(ctx context.Context, companyID uint) (*models.Subscription, error)
	ByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error)
	Update(ctx context.Context, subscription models.Subscription) error
	UpdateStatus(ctx context.Context, id uint, status models.SubscriptionStatus) error
}

// PaymentSessionRepository defines operations for hosted checkout sessions
type PaymentSessionRepository interface {
	Repository[models.PaymentSession, models.PaymentSessionFilter]
	ByStripeSessionID(ctx context.Context, stripeSessionID string) (*models.PaymentSession, error)
	Update(ctx context.Context, session models.PaymentSession) error
}

// NotificationRepository defines operations for the notification outbox
type NotificationRepository interface {
	Repository[models.Notification, models.NotificationFilter]
	ListPending(ctx context.Context, limit int) ([]*models.Notification, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	MarkSent(ctx context.Context, id uint, at time.Time) error
	MarkFailed(ctx context.Context, id uint, attempts int, lastError string) error
	MarkRead(ctx context.Context, id uint, userID uint, at time.Time) error
}

// ConversationRepository defines operations for chat conversations
type ConversationRepository interface {
	Repository[models.Conversation, models.ConversationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Conversation, error)
	ByParticipants(ctx context.Context, influencerID, companyID uint) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Conversation, error)
	TouchLastMessage(ctx context.Context, id uint, at time.Time) error
}

// MessageRepository defines operations for chat messages
type MessageRepository interface {
	Repository[models.Message, models.MessageFilter]
	ByConversationID(ctx context.Context, conversationID uint, limit, offset int) ([]*models.Message, error)
	CountUnread(ctx context.Context, conversationID, readerID uint) (int64, error)
	MarkConversationRead(ctx context.Context, conversationID, readerID uint, at time.Time) error
}
