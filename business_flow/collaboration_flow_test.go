// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// The fakes embed the repository interfaces so only the methods a flow
// actually calls need an implementation. An unexpected call panics.

type fakeUserRepo struct {
	repository.UserRepository
	users map[uint]*models.User
}

func (f *fakeUserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	return f.users[id], nil
}

type fakeCampaignRepo struct {
	repository.CampaignRepository
	campaigns map[string]*models.Campaign
}

func (f *fakeCampaignRepo) ByUUID(ctx context.Context, uuid string) (*models.Campaign, error) {
	return f.campaigns[uuid], nil
}

type fakeRequestRepo struct {
	repository.CollaborationRequestRepository
	byUUID  map[string]*models.CollaborationRequest
	hasOpen bool
	saved   []*models.CollaborationRequest
	updated []models.CollaborationRequest
}

func (f *fakeRequestRepo) ByUUID(ctx context.Context, uuid string) (*models.CollaborationRequest, error) {
	return f.byUUID[uuid], nil
}

func (f *fakeRequestRepo) HasOpenRequest(ctx context.Context, influencerID, campaignID uint) (bool, error) {
	return f.hasOpen, nil
}

func (f *fakeRequestRepo) Save(ctx context.Context, request *models.CollaborationRequest) error {
	f.saved = append(f.saved, request)
	return nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, request models.CollaborationRequest) error {
	f.updated = append(f.updated, request)
	return nil
}

type fakeNotificationRepo struct {
	repository.NotificationRepository
	rows []*models.Notification
}

func (f *fakeNotificationRepo) Save(ctx context.Context, notification *models.Notification) error {
	f.rows = append(f.rows, notification)
	return nil
}

type fakeAuditRepo struct {
	repository.AuditLogRepository
	rows []*models.AuditLog
}

func (f *fakeAuditRepo) Save(ctx context.Context, audit *models.AuditLog) error {
	f.rows = append(f.rows, audit)
	return nil
}

const (
	testInfluencerID = uint(7)
	testCompanyID    = uint(11)
)

type collaborationFixture struct {
	flow          CollaborationFlow
	users         *fakeUserRepo
	campaigns     *fakeCampaignRepo
	requests      *fakeRequestRepo
	notifications *fakeNotificationRepo
	audits        *fakeAuditRepo
	influencer    *models.User
	campaign      *models.Campaign
}

func newCollaborationFixture() *collaborationFixture {
	influencer := &models.User{
		ID:                 testInfluencerID,
		UUID:               uuid.New(),
		AccountType:        models.AccountType{TypeName: models.AccountTypeInfluencer},
		Status:             models.UserStatusApproved,
		FullName:           "Carmen Ruiz",
		InstagramFollowers: utils.ToPtr(5000),
	}
	campaign := &models.Campaign{
		ID:        3,
		UUID:      uuid.New(),
		CompanyID: testCompanyID,
		Status:    models.CampaignStatusActive,
		Title:     "Cena degustación para dos",
		Requirements: models.CampaignRequirements{
			MinInstagramFollowers: utils.ToPtr(1000),
		},
	}

	fx := &collaborationFixture{
		users:         &fakeUserRepo{users: map[uint]*models.User{influencer.ID: influencer}},
		campaigns:     &fakeCampaignRepo{campaigns: map[string]*models.Campaign{campaign.UUID.String(): campaign}},
		requests:      &fakeRequestRepo{byUUID: map[string]*models.CollaborationRequest{}},
		notifications: &fakeNotificationRepo{},
		audits:        &fakeAuditRepo{},
		influencer:    influencer,
		campaign:      campaign,
	}
	fx.flow = NewCollaborationFlow(fx.requests, fx.campaigns, fx.users, fx.notifications, fx.audits, nil)
	return fx
}

// addRequest seeds a stored request in the given status with relations loaded.
func (fx *collaborationFixture) addRequest(status models.RequestStatus) *models.CollaborationRequest {
	request := &models.CollaborationRequest{
		ID:           21,
		UUID:         uuid.New(),
		CampaignID:   fx.campaign.ID,
		InfluencerID: fx.influencer.ID,
		Status:       status,
		Campaign:     fx.campaign,
		Influencer:   fx.influencer,
	}
	fx.requests.byUUID[request.UUID.String()] = request
	return request
}

func submitPayload(campaignUUID string) *dto.SubmitCollaborationRequest {
	return &dto.SubmitCollaborationRequest{
		CampaignUUID:    campaignUUID,
		ProposedContent: "Dos historias del local y una reseña",
		ReservationDetails: &dto.ReservationDetailsDTO{
			Date:       "2026-10-05",
			Time:       "20:30",
			Companions: 1,
		},
	}
}

func TestSubmitRequestEnqueuesCompanyAndAdminRows(t *testing.T) {
	fx := newCollaborationFixture()

	resp, err := fx.flow.SubmitRequest(context.Background(), testInfluencerID, submitPayload(fx.campaign.UUID.String()), nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, models.RequestStatusPending.String(), resp.Status)
	require.Len(t, fx.requests.saved, 1)

	require.Len(t, fx.notifications.rows, 2)
	company := fx.notifications.rows[0]
	require.NotNil(t, company.UserID)
	assert.Equal(t, testCompanyID, *company.UserID)
	assert.Equal(t, models.EventRequestSubmitted, company.Event)

	adminRow := fx.notifications.rows[1]
	assert.Nil(t, adminRow.UserID)
	assert.Equal(t, models.EventRequestSubmitted, adminRow.Event)
}

func TestSubmitRequestRejectsDuplicateOpenRequest(t *testing.T) {
	fx := newCollaborationFixture()
	fx.requests.hasOpen = true

	_, err := fx.flow.SubmitRequest(context.Background(), testInfluencerID, submitPayload(fx.campaign.UUID.String()), nil)
	require.ErrorIs(t, err, ErrDuplicateCollaborationRequest)
	assert.Empty(t, fx.requests.saved)
	assert.Empty(t, fx.notifications.rows)
}

func TestSubmitRequestRejectsIneligibleInfluencer(t *testing.T) {
	fx := newCollaborationFixture()
	fx.influencer.InstagramFollowers = utils.ToPtr(500)

	_, err := fx.flow.SubmitRequest(context.Background(), testInfluencerID, submitPayload(fx.campaign.UUID.String()), nil)
	require.ErrorIs(t, err, ErrNotEligible)
	assert.Empty(t, fx.requests.saved)
	assert.Empty(t, fx.notifications.rows)
}

func TestSubmitRequestRejectsClosedCampaign(t *testing.T) {
	fx := newCollaborationFixture()
	fx.campaign.Status = models.CampaignStatusPaused

	_, err := fx.flow.SubmitRequest(context.Background(), testInfluencerID, submitPayload(fx.campaign.UUID.String()), nil)
	require.ErrorIs(t, err, ErrCampaignNotOpen)
}

func TestSubmitRequestRequiresExactlyOneDetailBlock(t *testing.T) {
	fx := newCollaborationFixture()

	payload := submitPayload(fx.campaign.UUID.String())
	payload.ReservationDetails = nil

	_, err := fx.flow.SubmitRequest(context.Background(), testInfluencerID, payload, nil)
	require.ErrorIs(t, err, ErrRequestDetailsRequired)

	payload = submitPayload(fx.campaign.UUID.String())
	payload.DeliveryDetails = &dto.DeliveryDetailsDTO{Address: "Calle Mayor 1", Phone: "+34600111222"}

	_, err = fx.flow.SubmitRequest(context.Background(), testInfluencerID, payload, nil)
	require.ErrorIs(t, err, ErrRequestDetailsRequired)
}

func TestUpdateRequestStatusApprovedNotifiesInfluencerAndCompany(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusPending)

	resp, err := fx.flow.UpdateRequestStatus(context.Background(), stored.UUID.String(), &dto.UpdateRequestStatusRequest{Status: "approved"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved.String(), resp.Status)
	require.Len(t, fx.requests.updated, 1)
	assert.Equal(t, models.RequestStatusApproved, fx.requests.updated[0].Status)

	require.Len(t, fx.notifications.rows, 2)
	influencerRow := fx.notifications.rows[0]
	require.NotNil(t, influencerRow.UserID)
	assert.Equal(t, testInfluencerID, *influencerRow.UserID)
	assert.Equal(t, models.EventRequestApproved, influencerRow.Event)

	companyRow := fx.notifications.rows[1]
	require.NotNil(t, companyRow.UserID)
	assert.Equal(t, testCompanyID, *companyRow.UserID)
	assert.Equal(t, models.EventRequestApprovedCompany, companyRow.Event)
}

func TestUpdateRequestStatusCancelledNotifiesCompany(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusApproved)

	_, err := fx.flow.UpdateRequestStatus(context.Background(), stored.UUID.String(), &dto.UpdateRequestStatusRequest{Status: "cancelled"}, nil)
	require.NoError(t, err)

	require.Len(t, fx.notifications.rows, 2)
	companyRow := fx.notifications.rows[1]
	require.NotNil(t, companyRow.UserID)
	assert.Equal(t, testCompanyID, *companyRow.UserID)
	assert.Equal(t, models.EventRequestCancelledCompany, companyRow.Event)
}

func TestUpdateRequestStatusRejectedNotifiesInfluencerOnly(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusPending)

	_, err := fx.flow.UpdateRequestStatus(context.Background(), stored.UUID.String(), &dto.UpdateRequestStatusRequest{Status: "rejected"}, nil)
	require.NoError(t, err)

	require.Len(t, fx.notifications.rows, 1)
	row := fx.notifications.rows[0]
	require.NotNil(t, row.UserID)
	assert.Equal(t, testInfluencerID, *row.UserID)
	assert.Equal(t, models.EventRequestRejected, row.Event)
}

func TestUpdateRequestStatusRejectsIllegalTransition(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusCompleted)

	_, err := fx.flow.UpdateRequestStatus(context.Background(), stored.UUID.String(), &dto.UpdateRequestStatusRequest{Status: "approved"}, nil)
	require.ErrorIs(t, err, ErrIllegalStatusTransition)
	assert.Empty(t, fx.requests.updated)
	assert.Empty(t, fx.notifications.rows)
}

func TestUpdateRequestStatusRejectsUnknownStatus(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusPending)

	_, err := fx.flow.UpdateRequestStatus(context.Background(), stored.UUID.String(), &dto.UpdateRequestStatusRequest{Status: "archived"}, nil)
	require.ErrorIs(t, err, ErrIllegalStatusTransition)
}

func TestUpdateRequestStatusUnknownRequest(t *testing.T) {
	fx := newCollaborationFixture()

	_, err := fx.flow.UpdateRequestStatus(context.Background(), uuid.NewString(), &dto.UpdateRequestStatusRequest{Status: "approved"}, nil)
	require.ErrorIs(t, err, ErrRequestNotFound)
}

func TestDeliverContentNotifiesCompanyAdminAndInfluencer(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusApproved)

	payload := &dto.DeliverContentRequest{InstagramStories: []string{"https://instagram.com/stories/carmen/1"}}
	resp, err := fx.flow.DeliverContent(context.Background(), testInfluencerID, stored.UUID.String(), payload, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted.String(), resp.Status)

	require.Len(t, fx.requests.updated, 1)
	updated := fx.requests.updated[0]
	assert.Equal(t, models.RequestStatusCompleted, updated.Status)
	require.NotNil(t, updated.ContentDelivered)
	assert.True(t, updated.ContentDelivered.HasAssets())

	require.Len(t, fx.notifications.rows, 3)
	companyRow := fx.notifications.rows[0]
	require.NotNil(t, companyRow.UserID)
	assert.Equal(t, testCompanyID, *companyRow.UserID)
	assert.Equal(t, models.EventContentDelivered, companyRow.Event)

	adminRow := fx.notifications.rows[1]
	assert.Nil(t, adminRow.UserID)
	assert.Equal(t, models.EventContentDelivered, adminRow.Event)

	influencerRow := fx.notifications.rows[2]
	require.NotNil(t, influencerRow.UserID)
	assert.Equal(t, testInfluencerID, *influencerRow.UserID)
	assert.Equal(t, models.EventRequestCompleted, influencerRow.Event)
}

func TestDeliverContentRequiresApprovedRequest(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusPending)

	payload := &dto.DeliverContentRequest{InstagramStories: []string{"https://instagram.com/stories/carmen/1"}}
	_, err := fx.flow.DeliverContent(context.Background(), testInfluencerID, stored.UUID.String(), payload, nil)
	require.ErrorIs(t, err, ErrRequestNotApproved)
	assert.Empty(t, fx.notifications.rows)
}

func TestDeliverContentRejectsOtherInfluencer(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusApproved)

	payload := &dto.DeliverContentRequest{TiktokVideos: []string{"https://tiktok.com/@otro/video/1"}}
	_, err := fx.flow.DeliverContent(context.Background(), testInfluencerID+1, stored.UUID.String(), payload, nil)
	require.ErrorIs(t, err, ErrRequestAccessDenied)
}

func TestDeliverContentRejectsSecondDelivery(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusApproved)
	stored.ContentDelivered = &models.ContentDelivery{
		InstagramStories: []string{"https://instagram.com/stories/carmen/1"},
		DeliveredAt:      utils.UTCNow(),
	}

	payload := &dto.DeliverContentRequest{InstagramStories: []string{"https://instagram.com/stories/carmen/2"}}
	_, err := fx.flow.DeliverContent(context.Background(), testInfluencerID, stored.UUID.String(), payload, nil)
	require.ErrorIs(t, err, ErrContentAlreadyDelivered)
	assert.Empty(t, fx.requests.updated)
}

func TestDeliverContentRequiresAssets(t *testing.T) {
	fx := newCollaborationFixture()
	stored := fx.addRequest(models.RequestStatusApproved)

	_, err := fx.flow.DeliverContent(context.Background(), testInfluencerID, stored.UUID.String(), &dto.DeliverContentRequest{}, nil)
	require.ErrorIs(t, err, ErrNoContentAssets)
}
