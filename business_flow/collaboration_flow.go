// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// CollaborationFlow handles the collaboration request lifecycle from
// submission through decision, content delivery and history.
type CollaborationFlow interface {
	SubmitRequest(ctx context.Context, influencerID uint, request *dto.SubmitCollaborationRequest, metadata *ClientMetadata) (*dto.CollaborationRequestDTO, error)
	UpdateRequestStatus(ctx context.Context, requestUUID string, request *dto.UpdateRequestStatusRequest, metadata *ClientMetadata) (*dto.CollaborationRequestDTO, error)
	DeliverContent(ctx context.Context, influencerID uint, requestUUID string, request *dto.DeliverContentRequest, metadata *ClientMetadata) (*dto.CollaborationRequestDTO, error)
	ListInfluencerRequests(ctx context.Context, influencerID uint, pagination dto.PaginationRequest) (*dto.ListRequestsResponse, error)
	ListCampaignRequests(ctx context.Context, companyID uint, campaignUUID string, pagination dto.PaginationRequest) (*dto.ListRequestsResponse, error)
	History(ctx context.Context, influencerID uint) (*dto.CollaborationHistoryResponse, error)
}

// CollaborationFlowImpl implements the collaboration request flow
type CollaborationFlowImpl struct {
	requestRepo      repository.CollaborationRequestRepository
	campaignRepo     repository.CampaignRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	auditRepo        repository.AuditLogRepository
	db               *gorm.DB
}

// NewCollaborationFlow creates a new collaboration flow instance
func NewCollaborationFlow(
	requestRepo repository.CollaborationRequestRepository,
	campaignRepo repository.CampaignRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) CollaborationFlow {
	return &CollaborationFlowImpl{
		requestRepo:      requestRepo,
		campaignRepo:     campaignRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		db:               db,
	}
}

// decisionEvents maps each reachable request status to the notification event
// sent to the influencer when the request lands in that status.
var decisionEvents = map[models.RequestStatus]models.NotificationEvent{
	models.RequestStatusApproved:  models.EventRequestApproved,
	models.RequestStatusRejected:  models.EventRequestRejected,
	models.RequestStatusCompleted: models.EventRequestCompleted,
	models.RequestStatusCancelled: models.EventRequestCancelled,
}

// companyDecisionEvents maps the decisions the owning company is told about
// to their company-facing notification events.
var companyDecisionEvents = map[models.RequestStatus]models.NotificationEvent{
	models.RequestStatusApproved:  models.EventRequestApprovedCompany,
	models.RequestStatusCancelled: models.EventRequestCancelledCompany,
}

// SubmitRequest creates a pending collaboration request for an active
// campaign. The influencer must meet the campaign's follower minimums and may
// hold at most one open request per campaign.
func (cf *CollaborationFlowImpl) SubmitRequest(ctx context.Context, influencerID uint, request *dto.SubmitCollaborationRequest, metadata *ClientMetadata) (*dto.CollaborationRequestDTO, error) {
	influencer, err := cf.requireInfluencer(ctx, influencerID)
	if err != nil {
		return nil, err
	}

	if (request.ReservationDetails == nil) == (request.DeliveryDetails == nil) {
		return nil, NewBusinessError("REQUEST_DETAILS_REQUIRED", "Exactly one of reservation or delivery details is required", ErrRequestDetailsRequired)
	}

	resp, err := cf.withRequestTransaction(ctx, func(ctx context.Context) (*dto.CollaborationRequestDTO, error) {
		campaign, err := cf.campaignRepo.ByUUID(ctx, request.CampaignUUID)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			return nil, ErrCampaignNotFound
		}
		if !campaign.IsOpenForRequests() {
			return nil, ErrCampaignNotOpen
		}

		verdict := CheckEligibility(influencer, campaign.Requirements)
		if !verdict.IsEligible {
			return nil, NewBusinessError("NOT_ELIGIBLE", verdict.Message, ErrNotEligible)
		}

		open, err := cf.requestRepo.HasOpenRequest(ctx, influencer.ID, campaign.ID)
		if err != nil {
			return nil, err
		}
		if open {
			return nil, ErrDuplicateCollaborationRequest
		}

		collaboration := &models.CollaborationRequest{
			CampaignID:      campaign.ID,
			InfluencerID:    influencer.ID,
			Status:          models.RequestStatusPending,
			ProposedContent: request.ProposedContent,
		}

		if request.ReservationDetails != nil {
			date, err := time.Parse("2006-01-02", request.ReservationDetails.Date)
			if err != nil {
				return nil, NewBusinessError("RESERVATION_DATE_INVALID", "Reservation date must be YYYY-MM-DD", err)
			}
			collaboration.ReservationDetails = &models.ReservationDetails{
				Date:       date,
				Time:       request.ReservationDetails.Time,
				Companions: request.ReservationDetails.Companions,
			}
		} else {
			collaboration.DeliveryDetails = &models.DeliveryDetails{
				Address: request.DeliveryDetails.Address,
				Phone:   request.DeliveryDetails.Phone,
			}
		}

		if err := cf.requestRepo.Save(ctx, collaboration); err != nil {
			return nil, err
		}

		params := map[string]string{
			"campaign_title":  campaign.Title,
			"influencer_name": influencer.FullName,
		}
		// Company and the admin review queue (nil user) both hear about new requests.
		if err := enqueueNotification(ctx, cf.notificationRepo, &campaign.CompanyID, models.EventRequestSubmitted, params, nil); err != nil {
			return nil, err
		}
		if err := enqueueNotification(ctx, cf.notificationRepo, nil, models.EventRequestSubmitted, params, nil); err != nil {
			return nil, err
		}

		collaboration.Campaign = campaign
		collaboration.Influencer = influencer
		result := ToCollaborationRequestDTO(*collaboration)
		return &result, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Request submission failed: %s", err.Error())
		_ = cf.logRequestAction(ctx, &influencerID, models.AuditActionRequestSubmissionFailed, errMsg, false, &errMsg, metadata)

		if IsBusinessError(err) {
			return nil, err
		}
		return nil, NewBusinessError("REQUEST_SUBMIT_FAILED", "Failed to submit collaboration request", err)
	}

	msg := fmt.Sprintf("Collaboration request submitted: %s", resp.UUID)
	_ = cf.logRequestAction(ctx, &influencerID, models.AuditActionRequestSubmitted, msg, true, nil, metadata)

	return resp, nil
}

// UpdateRequestStatus applies an admin decision. The transition table is
// consulted first and the status change plus its notifications are committed
// in one transaction. Approvals and cancellations notify the owning company
// as well as the influencer.
func (cf *CollaborationFlowImpl) UpdateRequestStatus(ctx context.Context, requestUUID string, request *dto.UpdateRequestStatusRequest, metadata *ClientMetadata) (*dto.CollaborationRequestDTO, error) {
	newStatus := models.RequestStatus(request.Status)
	if !newStatus.Valid() {
		return nil, NewBusinessErrorf("REQUEST_STATUS_INVALID", "Unknown request status: %s", ErrIllegalStatusTransition, request.Status)
	}

	var influencerID *uint

	resp, err := cf.withRequestTransaction(ctx, func(ctx context.Context) (*dto.CollaborationRequestDTO, error) {
		collaboration, err := cf.requestRepo.ByUUID(ctx, requestUUID)
		if err != nil {
			return nil, err
		}
		if collaboration == nil {
			return nil, ErrRequestNotFound
		}
		influencerID = &collaboration.InfluencerID

		if !collaboration.Status.CanTransitionTo(newStatus) {
			return nil, NewBusinessErrorf("REQUEST_STATUS_TRANSITION", "Request cannot move from %s to %s", ErrIllegalStatusTransition, collaboration.Status, newStatus)
		}

		collaboration.Status = newStatus
		if request.AdminNotes != nil {
			collaboration.AdminNotes = request.AdminNotes
		}
		if err := cf.requestRepo.Update(ctx, *collaboration); err != nil {
			return nil, err
		}

		params := map[string]string{}
		if collaboration.Campaign != nil {
			params["campaign_title"] = collaboration.Campaign.Title
		}
		if collaboration.Influencer != nil {
			params["influencer_name"] = collaboration.Influencer.FullName
		}
		if request.AdminNotes != nil {
			params["admin_notes"] = *request.AdminNotes
		}
		if err := enqueueNotification(ctx, cf.notificationRepo, &collaboration.InfluencerID, decisionEvents[newStatus], params, nil); err != nil {
			return nil, err
		}
		// Approval and cancellation also land in the company's inbox.
		if event, ok := companyDecisionEvents[newStatus]; ok && collaboration.Campaign != nil {
			if err := enqueueNotification(ctx, cf.notificationRepo, &collaboration.Campaign.CompanyID, event, params, nil); err != nil {
				return nil, err
			}
		}

		result := ToCollaborationRequestDTO(*collaboration)
		return &result, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Request status change failed: %s", err.Error())
		_ = cf.logRequestAction(ctx, influencerID, models.AuditActionRequestStatusChanged, errMsg, false, &errMsg, metadata)

		if IsBusinessError(err) {
			return nil, err
		}
		return nil, NewBusinessError("REQUEST_STATUS_FAILED", "Failed to update request status", err)
	}

	msg := fmt.Sprintf("Request %s status: %s", requestUUID, newStatus)
	_ = cf.logRequestAction(ctx, influencerID, models.AuditActionRequestStatusChanged, msg, true, nil, metadata)

	return resp, nil
}

// DeliverContent records the influencer's delivered assets on an approved
// request and completes it.
func (cf *CollaborationFlowImpl) DeliverContent(ctx context.Context, influencerID uint, requestUUID string, request *dto.DeliverContentRequest, metadata *ClientMetadata) (*dto.CollaborationRequestDTO, error) {
	delivery := models.ContentDelivery{
		InstagramStories: request.InstagramStories,
		TiktokVideos:     request.TiktokVideos,
		DeliveredAt:      utils.UTCNow(),
	}
	if !delivery.HasAssets() {
		return nil, NewBusinessError("NO_CONTENT_ASSETS", "At least one content asset is required", ErrNoContentAssets)
	}

	resp, err := cf.withRequestTransaction(ctx, func(ctx context.Context) (*dto.CollaborationRequestDTO, error) {
		collaboration, err := cf.requestRepo.ByUUID(ctx, requestUUID)
		if err != nil {
			return nil, err
		}
		if collaboration == nil {
			return nil, ErrRequestNotFound
		}
		if collaboration.InfluencerID != influencerID {
			return nil, ErrRequestAccessDenied
		}
		if collaboration.Status != models.RequestStatusApproved {
			return nil, ErrRequestNotApproved
		}
		if collaboration.ContentDelivered != nil {
			return nil, ErrContentAlreadyDelivered
		}

		collaboration.ContentDelivered = &delivery
		collaboration.Status = models.RequestStatusCompleted
		if err := cf.requestRepo.Update(ctx, *collaboration); err != nil {
			return nil, err
		}

		params := map[string]string{}
		if collaboration.Campaign != nil {
			params["campaign_title"] = collaboration.Campaign.Title
		}
		if collaboration.Influencer != nil {
			params["influencer_name"] = collaboration.Influencer.FullName
		}

		// The company and the admin review queue (nil user) hear about the
		// delivery, the influencer about completion.
		var companyID *uint
		if collaboration.Campaign != nil {
			companyID = &collaboration.Campaign.CompanyID
		}
		if err := enqueueNotification(ctx, cf.notificationRepo, companyID, models.EventContentDelivered, params, nil); err != nil {
			return nil, err
		}
		if err := enqueueNotification(ctx, cf.notificationRepo, nil, models.EventContentDelivered, params, nil); err != nil {
			return nil, err
		}
		if err := enqueueNotification(ctx, cf.notificationRepo, &collaboration.InfluencerID, models.EventRequestCompleted, params, nil); err != nil {
			return nil, err
		}

		result := ToCollaborationRequestDTO(*collaboration)
		return &result, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Content delivery failed: %s", err.Error())
		_ = cf.logRequestAction(ctx, &influencerID, models.AuditActionContentDelivered, errMsg, false, &errMsg, metadata)

		if IsBusinessError(err) {
			return nil, err
		}
		return nil, NewBusinessError("CONTENT_DELIVERY_FAILED", "Failed to deliver content", err)
	}

	msg := fmt.Sprintf("Content delivered for request: %s", requestUUID)
	_ = cf.logRequestAction(ctx, &influencerID, models.AuditActionContentDelivered, msg, true, nil, metadata)

	return resp, nil
}

// ListInfluencerRequests returns the influencer's own requests, newest first
func (cf *CollaborationFlowImpl) ListInfluencerRequests(ctx context.Context, influencerID uint, pagination dto.PaginationRequest) (*dto.ListRequestsResponse, error) {
	if _, err := cf.requireInfluencer(ctx, influencerID); err != nil {
		return nil, err
	}

	requests, err := cf.requestRepo.ByInfluencerID(ctx, influencerID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, NewBusinessError("REQUEST_LIST_FAILED", "Failed to list requests", err)
	}
	total, err := cf.requestRepo.Count(ctx, models.CollaborationRequestFilter{InfluencerID: &influencerID})
	if err != nil {
		return nil, NewBusinessError("REQUEST_LIST_FAILED", "Failed to count requests", err)
	}

	return cf.requestPage(requests, total, pagination), nil
}

// ListCampaignRequests returns the requests on one of the company's campaigns
func (cf *CollaborationFlowImpl) ListCampaignRequests(ctx context.Context, companyID uint, campaignUUID string, pagination dto.PaginationRequest) (*dto.ListRequestsResponse, error) {
	campaign, err := cf.campaignRepo.ByUUID(ctx, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to load campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	if campaign.CompanyID != companyID {
		return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Campaign belongs to another company", ErrCampaignAccessDenied)
	}

	requests, err := cf.requestRepo.ByCampaignID(ctx, campaign.ID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, NewBusinessError("REQUEST_LIST_FAILED", "Failed to list requests", err)
	}
	total, err := cf.requestRepo.Count(ctx, models.CollaborationRequestFilter{CampaignID: &campaign.ID})
	if err != nil {
		return nil, NewBusinessError("REQUEST_LIST_FAILED", "Failed to count requests", err)
	}

	return cf.requestPage(requests, total, pagination), nil
}

// History buckets the influencer's requests into upcoming, past and cancelled
// groups the way the mobile app's history screen expects them.
func (cf *CollaborationFlowImpl) History(ctx context.Context, influencerID uint) (*dto.CollaborationHistoryResponse, error) {
	if _, err := cf.requireInfluencer(ctx, influencerID); err != nil {
		return nil, err
	}

	requests, err := cf.requestRepo.ByInfluencerID(ctx, influencerID, 0, 0)
	if err != nil {
		return nil, NewBusinessError("HISTORY_FAILED", "Failed to load collaboration history", err)
	}

	resp := &dto.CollaborationHistoryResponse{
		Proximos:   []dto.CollaborationRequestDTO{},
		Pasados:    []dto.CollaborationRequestDTO{},
		Cancelados: []dto.CollaborationRequestDTO{},
	}

	now := utils.UTCNow()
	for _, r := range requests {
		d := ToCollaborationRequestDTO(*r)
		switch r.Status {
		case models.RequestStatusRejected, models.RequestStatusCancelled:
			resp.Cancelados = append(resp.Cancelados, d)
		case models.RequestStatusCompleted:
			resp.Pasados = append(resp.Pasados, d)
		case models.RequestStatusApproved:
			// Approved reservations flip from upcoming to past once the date passes.
			if r.ReservationDetails != nil && r.ReservationDetails.Date.Before(now.Truncate(24*time.Hour)) {
				resp.Pasados = append(resp.Pasados, d)
			} else {
				resp.Proximos = append(resp.Proximos, d)
			}
		default:
			resp.Proximos = append(resp.Proximos, d)
		}
	}

	return resp, nil
}

func (cf *CollaborationFlowImpl) requestPage(requests []*models.CollaborationRequest, total int64, pagination dto.PaginationRequest) *dto.ListRequestsResponse {
	resp := &dto.ListRequestsResponse{
		Requests: make([]dto.CollaborationRequestDTO, 0, len(requests)),
		Pagination: dto.PaginationResponse{
			Page:       pagination.Page,
			PageSize:   pagination.Limit(),
			TotalItems: total,
		},
	}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, ToCollaborationRequestDTO(*r))
	}
	return resp
}

func (cf *CollaborationFlowImpl) requireInfluencer(ctx context.Context, userID uint) (*models.User, error) {
	user, err := cf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if !user.IsInfluencer() {
		return nil, NewBusinessError("NOT_INFLUENCER", "Only influencer accounts can apply to campaigns", ErrNotInfluencer)
	}
	if !user.CanLogin() {
		return nil, NewBusinessError("USER_NOT_APPROVED", "Account is not approved", ErrUserNotApproved)
	}
	return user, nil
}

func (cf *CollaborationFlowImpl) logRequestAction(ctx context.Context, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
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

	return cf.auditRepo.Save(ctx, audit)
}

func (cf *CollaborationFlowImpl) withRequestTransaction(ctx context.Context, fn func(context.Context) (*dto.CollaborationRequestDTO, error)) (*dto.CollaborationRequestDTO, error) {
	var result *dto.CollaborationRequestDTO
	var fnErr error

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
