// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// NotificationFlow exposes a user's notification feed
type NotificationFlow interface {
	ListNotifications(ctx context.Context, userID uint, pagination dto.PaginationRequest) (*dto.ListNotificationsResponse, error)
	MarkRead(ctx context.Context, userID uint, notificationID uint) error
}

// NotificationFlowImpl implements the notification feed flow
type NotificationFlowImpl struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

// NewNotificationFlow creates a new notification flow instance
func NewNotificationFlow(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) NotificationFlow {
	return &NotificationFlowImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// ListNotifications returns the user's notifications, newest first, with the
// total unread count.
func (nf *NotificationFlowImpl) ListNotifications(ctx context.Context, userID uint, pagination dto.PaginationRequest) (*dto.ListNotificationsResponse, error) {
	user, err := nf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	notifications, err := nf.notificationRepo.ListByUser(ctx, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LIST_FAILED", "Failed to list notifications", err)
	}
	total, err := nf.notificationRepo.Count(ctx, models.NotificationFilter{UserID: &userID})
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LIST_FAILED", "Failed to count notifications", err)
	}
	unread, err := nf.notificationRepo.Count(ctx, models.NotificationFilter{UserID: &userID, Unread: utils.ToPtr(true)})
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LIST_FAILED", "Failed to count unread notifications", err)
	}

	resp := &dto.ListNotificationsResponse{
		Notifications: make([]dto.NotificationDTO, 0, len(notifications)),
		UnreadCount:   unread,
		Pagination: dto.PaginationResponse{
			Page:       pagination.Page,
			PageSize:   pagination.Limit(),
			TotalItems: total,
		},
	}
	for _, notification := range notifications {
		resp.Notifications = append(resp.Notifications, ToNotificationDTO(*notification))
	}

	return resp, nil
}

// MarkRead marks one of the user's notifications as read. Marking an already
// read notification is a no-op.
func (nf *NotificationFlowImpl) MarkRead(ctx context.Context, userID uint, notificationID uint) error {
	if err := nf.notificationRepo.MarkRead(ctx, notificationID, userID, utils.UTCNow()); err != nil {
		return NewBusinessError("NOTIFICATION_READ_FAILED", "Failed to mark notification read", err)
	}
	return nil
}
