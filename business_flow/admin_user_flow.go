// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// AdminUserFlow handles account approval and moderation by admins
type AdminUserFlow interface {
	ListPendingUsers(ctx context.Context, pagination dto.PaginationRequest) (*dto.AdminListPendingUsersResponse, error)
	ApproveUser(ctx context.Context, request *dto.AdminUserDecisionRequest, metadata *ClientMetadata) (*dto.AdminUserDecisionResponse, error)
	RejectUser(ctx context.Context, request *dto.AdminUserDecisionRequest, metadata *ClientMetadata) (*dto.AdminUserDecisionResponse, error)
	SuspendUser(ctx context.Context, request *dto.AdminSuspendUserRequest, metadata *ClientMetadata) (*dto.AdminUserDecisionResponse, error)
	Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
}

// AdminUserFlowImpl implements the admin user moderation flow
type AdminUserFlowImpl struct {
	userRepo         repository.UserRepository
	sessionRepo      repository.UserSessionRepository
	campaignRepo     repository.CampaignRepository
	requestRepo      repository.CollaborationRequestRepository
	notificationRepo repository.NotificationRepository
	auditRepo        repository.AuditLogRepository
	db               *gorm.DB
}

// NewAdminUserFlow creates a new admin user flow instance
func NewAdminUserFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	campaignRepo repository.CampaignRepository,
	requestRepo repository.CollaborationRequestRepository,
	notificationRepo repository.NotificationRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) AdminUserFlow {
	return &AdminUserFlowImpl{
		userRepo:         userRepo,
		sessionRepo:      sessionRepo,
		campaignRepo:     campaignRepo,
		requestRepo:      requestRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		db:               db,
	}
}

// ListPendingUsers returns registrations awaiting review, oldest first
func (af *AdminUserFlowImpl) ListPendingUsers(ctx context.Context, pagination dto.PaginationRequest) (*dto.AdminListPendingUsersResponse, error) {
	users, err := af.userRepo.ListPendingApproval(ctx, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, NewBusinessError("PENDING_USERS_FAILED", "Failed to list pending users", err)
	}

	total, err := af.userRepo.Count(ctx, models.UserFilter{Status: utils.ToPtr(models.UserStatusPending)})
	if err != nil {
		return nil, NewBusinessError("PENDING_USERS_FAILED", "Failed to count pending users", err)
	}

	resp := &dto.AdminListPendingUsersResponse{
		Users: make([]dto.UserDTO, 0, len(users)),
		Pagination: dto.PaginationResponse{
			Page:       pagination.Page,
			PageSize:   pagination.Limit(),
			TotalItems: total,
		},
	}
	for _, user := range users {
		resp.Users = append(resp.Users, ToUserDTO(*user))
	}

	return resp, nil
}

// ApproveUser moves a pending registration to approved and notifies the user
func (af *AdminUserFlowImpl) ApproveUser(ctx context.Context, request *dto.AdminUserDecisionRequest, metadata *ClientMetadata) (*dto.AdminUserDecisionResponse, error) {
	return af.decide(ctx, request, models.UserStatusApproved, models.EventAccountApproved, models.AuditActionUserApproved, metadata)
}

// RejectUser moves a pending registration to rejected and notifies the user
func (af *AdminUserFlowImpl) RejectUser(ctx context.Context, request *dto.AdminUserDecisionRequest, metadata *ClientMetadata) (*dto.AdminUserDecisionResponse, error) {
	return af.decide(ctx, request, models.UserStatusRejected, models.EventAccountRejected, models.AuditActionUserRejected, metadata)
}

// SuspendUser suspends an approved account and expires its sessions
func (af *AdminUserFlowImpl) SuspendUser(ctx context.Context, request *dto.AdminSuspendUserRequest, metadata *ClientMetadata) (*dto.AdminUserDecisionResponse, error) {
	var user *models.User

	resp, err := af.withDecisionTransaction(ctx, func(ctx context.Context) (*dto.AdminUserDecisionResponse, error) {
		var err error
		user, err = af.userRepo.ByID(ctx, request.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if user.Status != models.UserStatusApproved {
			return nil, ErrUserNotApproved
		}

		if err := af.userRepo.UpdateStatus(ctx, user.ID, models.UserStatusSuspended); err != nil {
			return nil, err
		}
		if err := af.sessionRepo.ExpireAllUserSessions(ctx, user.ID); err != nil {
			return nil, err
		}

		user.Status = models.UserStatusSuspended
		return &dto.AdminUserDecisionResponse{
			Message: "Cuenta suspendida",
			User:    ToUserDTO(*user),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("USER_SUSPEND_FAILED", "Failed to suspend user", err)
	}

	msg := fmt.Sprintf("User suspended: %d", request.UserID)
	_ = af.logDecision(ctx, &request.UserID, models.AuditActionUserSuspended, msg, true, nil, metadata)

	return resp, nil
}

// Dashboard returns marketplace activity counters for the admin panel
func (af *AdminUserFlowImpl) Dashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	pendingUsers, err := af.userRepo.Count(ctx, models.UserFilter{Status: utils.ToPtr(models.UserStatusPending)})
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to load dashboard", err)
	}
	approvedUsers, err := af.userRepo.Count(ctx, models.UserFilter{Status: utils.ToPtr(models.UserStatusApproved)})
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to load dashboard", err)
	}
	activeCampaigns, err := af.campaignRepo.Count(ctx, models.CampaignFilter{Status: utils.ToPtr(models.CampaignStatusActive)})
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to load dashboard", err)
	}
	pendingRequests, err := af.requestRepo.Count(ctx, models.CollaborationRequestFilter{Status: utils.ToPtr(models.RequestStatusPending)})
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to load dashboard", err)
	}
	approvedRequests, err := af.requestRepo.Count(ctx, models.CollaborationRequestFilter{Status: utils.ToPtr(models.RequestStatusApproved)})
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to load dashboard", err)
	}

	return &dto.AdminDashboardResponse{
		PendingUsers:     pendingUsers,
		ApprovedUsers:    approvedUsers,
		ActiveCampaigns:  activeCampaigns,
		PendingRequests:  pendingRequests,
		ApprovedRequests: approvedRequests,
	}, nil
}

func (af *AdminUserFlowImpl) decide(ctx context.Context, request *dto.AdminUserDecisionRequest, newStatus models.UserStatus, event models.NotificationEvent, auditAction string, metadata *ClientMetadata) (*dto.AdminUserDecisionResponse, error) {
	var user *models.User

	resp, err := af.withDecisionTransaction(ctx, func(ctx context.Context) (*dto.AdminUserDecisionResponse, error) {
		var err error
		user, err = af.userRepo.ByID(ctx, request.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if user.Status != models.UserStatusPending {
			return nil, ErrUserNotPending
		}

		if err := af.userRepo.UpdateStatus(ctx, user.ID, newStatus); err != nil {
			return nil, err
		}

		params := map[string]string{}
		if request.AdminNotes != nil {
			params["admin_notes"] = *request.AdminNotes
		}
		if err := enqueueNotification(ctx, af.notificationRepo, &user.ID, event, params, nil); err != nil {
			return nil, err
		}

		user.Status = newStatus
		message := "Cuenta aprobada"
		if newStatus == models.UserStatusRejected {
			message = "Cuenta rechazada"
		}

		return &dto.AdminUserDecisionResponse{
			Message: message,
			User:    ToUserDTO(*user),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("User decision failed: %s", err.Error())
		_ = af.logDecision(ctx, &request.UserID, auditAction, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("USER_DECISION_FAILED", "User decision failed", err)
	}

	msg := fmt.Sprintf("User %s: %d", newStatus, request.UserID)
	_ = af.logDecision(ctx, &request.UserID, auditAction, msg, true, nil, metadata)

	return resp, nil
}

func (af *AdminUserFlowImpl) logDecision(ctx context.Context, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return af.auditRepo.Save(ctx, audit)
}

func (af *AdminUserFlowImpl) withDecisionTransaction(ctx context.Context, fn func(context.Context) (*dto.AdminUserDecisionResponse, error)) (*dto.AdminUserDecisionResponse, error) {
	var result *dto.AdminUserDecisionResponse
	var fnErr error

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
