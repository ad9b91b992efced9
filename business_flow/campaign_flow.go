// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/app/services"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// CampaignFlow handles campaign management and the public listing
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, companyID uint, request *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	UpdateCampaign(ctx context.Context, companyID uint, campaignUUID string, request *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	UpdateCampaignStatus(ctx context.Context, companyID uint, campaignUUID string, request *dto.UpdateCampaignStatusRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	ListCompanyCampaigns(ctx context.Context, companyID uint, pagination dto.PaginationRequest) (*dto.ListCampaignsResponse, error)
	ListActiveCampaigns(ctx context.Context, viewerID uint, request *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error)
	GetCampaign(ctx context.Context, viewerID uint, campaignUUID string) (*dto.CampaignDTO, error)
	ExportCampaignsXLSX(ctx context.Context) (string, []byte, error)
}

// CampaignFlowImpl implements the campaign management flow
type CampaignFlowImpl struct {
	campaignRepo     repository.CampaignRepository
	requestRepo      repository.CollaborationRequestRepository
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	auditRepo        repository.AuditLogRepository
	cache            services.CacheStore
	db               *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	requestRepo repository.CollaborationRequestRepository,
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	auditRepo repository.AuditLogRepository,
	cache services.CacheStore,
	db *gorm.DB,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo:     campaignRepo,
		requestRepo:      requestRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		auditRepo:        auditRepo,
		cache:            cache,
		db:               db,
	}
}

// CreateCampaign creates a new campaign in draft status for the given company
func (cf *CampaignFlowImpl) CreateCampaign(ctx context.Context, companyID uint, request *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	company, err := cf.requireCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(request.Title) == "" {
		return nil, NewBusinessError("CAMPAIGN_TITLE_REQUIRED", "Campaign title is required", ErrCampaignTitleRequired)
	}
	if strings.TrimSpace(request.City) == "" {
		return nil, NewBusinessError("CAMPAIGN_CITY_REQUIRED", "Campaign city is required", ErrCampaignCityRequired)
	}
	if strings.TrimSpace(request.Category) == "" {
		return nil, NewBusinessError("CAMPAIGN_CATEGORY_REQUIRED", "Campaign category is required", ErrCampaignCategoryRequired)
	}

	campaign := &models.Campaign{
		CompanyID:        company.ID,
		Status:           models.CampaignStatusDraft,
		Title:            strings.TrimSpace(request.Title),
		Description:      request.Description,
		City:             strings.TrimSpace(request.City),
		Category:         strings.TrimSpace(request.Category),
		OfferDescription: request.OfferDescription,
		ImageURLs:        pq.StringArray(request.ImageURLs),
		Requirements: models.CampaignRequirements{
			MinInstagramFollowers: request.Requirements.MinInstagramFollowers,
			MinTiktokFollowers:    request.Requirements.MinTiktokFollowers,
		},
		ContentRequirements: models.ContentRequirements{
			InstagramStories: request.ContentRequirements.InstagramStories,
			TiktokVideos:     request.ContentRequirements.TiktokVideos,
			DeadlineHours:    request.ContentRequirements.DeadlineHours,
		},
	}

	if err := cf.campaignRepo.Save(ctx, campaign); err != nil {
		return nil, NewBusinessError("CAMPAIGN_CREATE_FAILED", "Failed to create campaign", err)
	}

	campaign.Company = company
	msg := fmt.Sprintf("Campaign created: %s", campaign.UUID)
	_ = cf.logCampaignAction(ctx, &company.ID, models.AuditActionCampaignCreated, msg, true, nil, metadata)

	result := ToCampaignDTO(*campaign)
	return &result, nil
}

// UpdateCampaign applies a partial update. Only draft and paused campaigns are editable.
func (cf *CampaignFlowImpl) UpdateCampaign(ctx context.Context, companyID uint, campaignUUID string, request *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	campaign, err := cf.ownedCampaign(ctx, companyID, campaignUUID)
	if err != nil {
		return nil, err
	}

	if !campaign.IsEditable() {
		return nil, NewBusinessError("CAMPAIGN_NOT_EDITABLE", "Campaign can only be edited while draft or paused", ErrCampaignNotEditable)
	}

	if request.Title != nil {
		if strings.TrimSpace(*request.Title) == "" {
			return nil, NewBusinessError("CAMPAIGN_TITLE_REQUIRED", "Campaign title is required", ErrCampaignTitleRequired)
		}
		campaign.Title = strings.TrimSpace(*request.Title)
	}
	if request.Description != nil {
		campaign.Description = *request.Description
	}
	if request.City != nil {
		if strings.TrimSpace(*request.City) == "" {
			return nil, NewBusinessError("CAMPAIGN_CITY_REQUIRED", "Campaign city is required", ErrCampaignCityRequired)
		}
		campaign.City = strings.TrimSpace(*request.City)
	}
	if request.Category != nil {
		if strings.TrimSpace(*request.Category) == "" {
			return nil, NewBusinessError("CAMPAIGN_CATEGORY_REQUIRED", "Campaign category is required", ErrCampaignCategoryRequired)
		}
		campaign.Category = strings.TrimSpace(*request.Category)
	}
	if request.OfferDescription != nil {
		campaign.OfferDescription = *request.OfferDescription
	}
	if request.ImageURLs != nil {
		campaign.ImageURLs = pq.StringArray(*request.ImageURLs)
	}
	if request.Requirements != nil {
		campaign.Requirements = models.CampaignRequirements{
			MinInstagramFollowers: request.Requirements.MinInstagramFollowers,
			MinTiktokFollowers:    request.Requirements.MinTiktokFollowers,
		}
	}
	if request.ContentRequirements != nil {
		campaign.ContentRequirements = models.ContentRequirements{
			InstagramStories: request.ContentRequirements.InstagramStories,
			TiktokVideos:     request.ContentRequirements.TiktokVideos,
			DeadlineHours:    request.ContentRequirements.DeadlineHours,
		}
	}

	if err := cf.campaignRepo.Update(ctx, *campaign); err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Failed to update campaign", err)
	}

	cf.invalidateListingCache(ctx)

	msg := fmt.Sprintf("Campaign updated: %s", campaign.UUID)
	_ = cf.logCampaignAction(ctx, &companyID, models.AuditActionCampaignUpdated, msg, true, nil, metadata)

	result := ToCampaignDTO(*campaign)
	return &result, nil
}

// UpdateCampaignStatus moves a campaign through its lifecycle. Illegal
// transitions are rejected before touching storage.
func (cf *CampaignFlowImpl) UpdateCampaignStatus(ctx context.Context, companyID uint, campaignUUID string, request *dto.UpdateCampaignStatusRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	campaign, err := cf.ownedCampaign(ctx, companyID, campaignUUID)
	if err != nil {
		return nil, err
	}

	newStatus := models.CampaignStatus(request.Status)
	if !newStatus.Valid() {
		return nil, NewBusinessErrorf("CAMPAIGN_STATUS_INVALID", "Unknown campaign status: %s", ErrIllegalStatusTransition, request.Status)
	}
	if !campaign.CanTransitionTo(newStatus) {
		return nil, NewBusinessErrorf("CAMPAIGN_STATUS_TRANSITION", "Campaign cannot move from %s to %s", ErrIllegalStatusTransition, campaign.Status, newStatus)
	}

	// Activation requires a paying company.
	if newStatus == models.CampaignStatusActive {
		subscription, err := cf.subscriptionRepo.ByCompanyID(ctx, companyID)
		if err != nil {
			return nil, NewBusinessError("SUBSCRIPTION_LOOKUP_FAILED", "Failed to check subscription", err)
		}
		if subscription == nil || !subscription.IsBillable() {
			return nil, NewBusinessError("SUBSCRIPTION_REQUIRED", "An active subscription is required to activate campaigns", ErrSubscriptionRequired)
		}
	}

	if err := cf.campaignRepo.UpdateStatus(ctx, campaign.ID, newStatus); err != nil {
		return nil, NewBusinessError("CAMPAIGN_STATUS_FAILED", "Failed to update campaign status", err)
	}

	cf.invalidateListingCache(ctx)

	oldStatus := campaign.Status
	campaign.Status = newStatus
	now := utils.UTCNow()
	campaign.UpdatedAt = &now

	msg := fmt.Sprintf("Campaign %s status: %s -> %s", campaign.UUID, oldStatus, newStatus)
	_ = cf.logCampaignAction(ctx, &companyID, models.AuditActionCampaignStatusChanged, msg, true, nil, metadata)

	result := ToCampaignDTO(*campaign)
	return &result, nil
}

// ListCompanyCampaigns returns the owning company's campaigns, newest first
func (cf *CampaignFlowImpl) ListCompanyCampaigns(ctx context.Context, companyID uint, pagination dto.PaginationRequest) (*dto.ListCampaignsResponse, error) {
	if _, err := cf.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	campaigns, err := cf.campaignRepo.ByCompanyID(ctx, companyID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}
	total, err := cf.campaignRepo.Count(ctx, models.CampaignFilter{CompanyID: &companyID})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count campaigns", err)
	}

	resp := &dto.ListCampaignsResponse{
		Campaigns: make([]dto.CampaignDTO, 0, len(campaigns)),
		Pagination: dto.PaginationResponse{
			Page:       pagination.Page,
			PageSize:   pagination.Limit(),
			TotalItems: total,
		},
	}
	for _, campaign := range campaigns {
		resp.Campaigns = append(resp.Campaigns, ToCampaignDTO(*campaign))
	}

	return resp, nil
}

// ListActiveCampaigns returns active campaigns for an approved influencer,
// optionally filtered by city and category, with a per-campaign eligibility
// verdict for the viewer. The unfiltered first page is served from cache.
func (cf *CampaignFlowImpl) ListActiveCampaigns(ctx context.Context, viewerID uint, request *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error) {
	viewer, err := cf.requireApprovedInfluencer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	campaigns, total, err := cf.activeCampaignPage(ctx, request)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListCampaignsResponse{
		Campaigns: make([]dto.CampaignDTO, 0, len(campaigns)),
		Pagination: dto.PaginationResponse{
			Page:       listingPage(request).Page,
			PageSize:   listingPage(request).Limit(),
			TotalItems: total,
		},
	}
	for _, campaign := range campaigns {
		d := ToCampaignDTO(*campaign)
		verdict := ToEligibilityDTO(CheckEligibility(viewer, campaign.Requirements))
		d.Eligibility = &verdict
		resp.Campaigns = append(resp.Campaigns, d)
	}

	return resp, nil
}

// GetCampaign returns one campaign with the viewer's eligibility verdict when
// the viewer is an influencer. Companies can only read their own campaigns.
func (cf *CampaignFlowImpl) GetCampaign(ctx context.Context, viewerID uint, campaignUUID string) (*dto.CampaignDTO, error) {
	campaign, err := cf.campaignRepo.ByUUID(ctx, campaignUUID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to load campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}

	viewer, err := cf.userRepo.ByID(ctx, viewerID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to load user", err)
	}
	if viewer == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}

	result := ToCampaignDTO(*campaign)

	if viewer.IsInfluencer() {
		if campaign.Status != models.CampaignStatusActive {
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
		}
		verdict := ToEligibilityDTO(CheckEligibility(viewer, campaign.Requirements))
		result.Eligibility = &verdict
		return &result, nil
	}

	if campaign.CompanyID != viewer.ID {
		return nil, NewBusinessError("CAMPAIGN_ACCESS_DENIED", "Campaign belongs to another company", ErrCampaignAccessDenied)
	}
	return &result, nil
}

// ExportCampaignsXLSX builds a workbook with one row per campaign and a second
// sheet listing every collaboration request, for admin reporting.
func (cf *CampaignFlowImpl) ExportCampaignsXLSX(ctx context.Context) (string, []byte, error) {
	campaigns, err := cf.campaignRepo.ByFilter(ctx, models.CampaignFilter{}, "created_at ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("CAMPAIGN_EXPORT_FAILED", "Failed to load campaigns", err)
	}
	requests, err := cf.requestRepo.ByFilter(ctx, models.CollaborationRequestFilter{}, "created_at ASC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("CAMPAIGN_EXPORT_FAILED", "Failed to load collaboration requests", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	campaignSheet := "campaigns"
	xl.SetSheetName(xl.GetSheetName(0), campaignSheet)

	header := []string{"id", "uuid", "company_id", "company_name", "status", "title", "city", "category", "min_instagram_followers", "min_tiktok_followers", "created_at", "updated_at"}
	_ = xl.SetSheetRow(campaignSheet, "A1", &header)

	for ri, c := range campaigns {
		companyName := ""
		if c.Company != nil {
			companyName = c.Company.FullName
			if c.Company.BusinessName != nil && strings.TrimSpace(*c.Company.BusinessName) != "" {
				companyName = *c.Company.BusinessName
			}
		}
		updatedAt := ""
		if c.UpdatedAt != nil {
			updatedAt = c.UpdatedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.UUID.String(),
			strconv.FormatUint(uint64(c.CompanyID), 10),
			companyName,
			c.Status.String(),
			c.Title,
			c.City,
			c.Category,
			formatOptionalInt(c.Requirements.MinInstagramFollowers),
			formatOptionalInt(c.Requirements.MinTiktokFollowers),
			c.CreatedAt.UTC().Format(time.RFC3339),
			updatedAt,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(campaignSheet, cellRef, &record)
	}

	requestSheet := "collaboration_requests"
	_, _ = xl.NewSheet(requestSheet)

	requestHeader := []string{"id", "uuid", "campaign_id", "influencer_id", "status", "request_date", "content_delivered", "admin_notes"}
	_ = xl.SetSheetRow(requestSheet, "A1", &requestHeader)

	for ri, r := range requests {
		delivered := ""
		if r.ContentDelivered != nil {
			delivered = r.ContentDelivered.DeliveredAt.UTC().Format(time.RFC3339)
		}
		notes := ""
		if r.AdminNotes != nil {
			notes = *r.AdminNotes
		}
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.UUID.String(),
			strconv.FormatUint(uint64(r.CampaignID), 10),
			strconv.FormatUint(uint64(r.InfluencerID), 10),
			r.Status.String(),
			r.RequestDate.UTC().Format(time.RFC3339),
			delivered,
			notes,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(requestSheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("campaigns_%s.xlsx", utils.UTCNow().Format("20060102"))
	return filename, buf.Bytes(), nil
}

// cachedListing is the cache envelope for the unfiltered first listing page
type cachedListing struct {
	Campaigns []*models.Campaign `json:"campaigns"`
	Total     int64              `json:"total"`
}

func (cf *CampaignFlowImpl) activeCampaignPage(ctx context.Context, request *dto.ListCampaignsRequest) ([]*models.Campaign, int64, error) {
	filter := models.CampaignFilter{Status: utils.ToPtr(models.CampaignStatusActive)}
	if request.City != nil && strings.TrimSpace(*request.City) != "" {
		filter.City = utils.ToPtr(strings.TrimSpace(*request.City))
	}
	if request.Category != nil && strings.TrimSpace(*request.Category) != "" {
		filter.Category = utils.ToPtr(strings.TrimSpace(*request.Category))
	}

	p := listingPage(request)
	cacheable := cf.cache != nil && filter.City == nil && filter.Category == nil && p.Offset() == 0

	if cacheable {
		var cached cachedListing
		if err := cf.cache.Get(ctx, utils.ActiveCampaignsCacheKey, &cached); err == nil {
			return cached.Campaigns, cached.Total, nil
		}
	}

	campaigns, err := cf.campaignRepo.ByFilter(ctx, filter, "created_at DESC", p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}
	total, err := cf.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count campaigns", err)
	}

	if cacheable {
		_ = cf.cache.Set(ctx, utils.ActiveCampaignsCacheKey, cachedListing{Campaigns: campaigns, Total: total}, utils.ActiveCampaignsCacheTTL)
	}

	return campaigns, total, nil
}

func (cf *CampaignFlowImpl) invalidateListingCache(ctx context.Context) {
	if cf.cache != nil {
		_ = cf.cache.Delete(ctx, utils.ActiveCampaignsCacheKey)
	}
}

func (cf *CampaignFlowImpl) ownedCampaign(ctx context.Context, companyID uint, campaignUUID string) (*models.Campaign, error) {
	if _, err := cf.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

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
	return campaign, nil
}

func (cf *CampaignFlowImpl) requireCompany(ctx context.Context, userID uint) (*models.User, error) {
	user, err := cf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if !user.IsCompany() {
		return nil, NewBusinessError("NOT_COMPANY", "Only company accounts can manage campaigns", ErrNotCompany)
	}
	if !user.CanLogin() {
		return nil, NewBusinessError("USER_NOT_APPROVED", "Account is not approved", ErrUserNotApproved)
	}
	return user, nil
}

func (cf *CampaignFlowImpl) requireApprovedInfluencer(ctx context.Context, userID uint) (*models.User, error) {
	user, err := cf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if !user.IsInfluencer() {
		return nil, NewBusinessError("NOT_INFLUENCER", "Only influencer accounts can browse campaigns", ErrNotInfluencer)
	}
	if !user.CanLogin() {
		return nil, NewBusinessError("USER_NOT_APPROVED", "Account is not approved", ErrUserNotApproved)
	}
	return user, nil
}

func (cf *CampaignFlowImpl) logCampaignAction(ctx context.Context, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
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

func listingPage(request *dto.ListCampaignsRequest) dto.PaginationRequest {
	if request == nil {
		return dto.PaginationRequest{}
	}
	return request.PaginationRequest
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
