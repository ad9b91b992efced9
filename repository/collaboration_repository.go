// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// CollaborationRequestRepositoryImpl implements CollaborationRequestRepository interface
type CollaborationRequestRepositoryImpl struct {
	*BaseRepository[models.CollaborationRequest, models.CollaborationRequestFilter]
}

// NewCollaborationRequestRepository creates a new collaboration request repository
func NewCollaborationRequestRepository(db *gorm.DB) CollaborationRequestRepository {
	return &CollaborationRequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CollaborationRequest, models.CollaborationRequestFilter](db),
	}
}

// ByID retrieves a request by ID with campaign and influencer preloaded
func (r *CollaborationRequestRepositoryImpl) ByID(ctx context.Context, id uint) (*models.CollaborationRequest, error) {
	db := r.getDB(ctx)

	var request models.CollaborationRequest
	err := db.Preload("Campaign").Preload("Campaign.Company").Preload("Influencer").
		Last(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &request, nil
}

// ByUUID retrieves a request by UUID
func (r *CollaborationRequestRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.CollaborationRequest, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.CollaborationRequestFilter{UUID: &parsedUUID}
	requests, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(requests) == 0 {
		return nil, nil
	}

	return requests[0], nil
}

// ByInfluencerID retrieves requests submitted by an influencer, newest first
func (r *CollaborationRequestRepositoryImpl) ByInfluencerID(ctx context.Context, influencerID uint, limit, offset int) ([]*models.CollaborationRequest, error) {
	filter := models.CollaborationRequestFilter{InfluencerID: &influencerID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ByCampaignID retrieves requests targeting a campaign, newest first
func (r *CollaborationRequestRepositoryImpl) ByCampaignID(ctx context.Context, campaignID uint, limit, offset int) ([]*models.CollaborationRequest, error) {
	filter := models.CollaborationRequestFilter{CampaignID: &campaignID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// Update updates a collaboration request
func (r *CollaborationRequestRepositoryImpl) Update(ctx context.Context, request models.CollaborationRequest) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	request.UpdatedAt = &now

	err = db.Save(&request).Error
	if err != nil {
		return err
	}

	return nil
}

// HasOpenRequest reports whether the influencer already has a pending or
// approved request on the campaign.
func (r *CollaborationRequestRepositoryImpl) HasOpenRequest(ctx context.Context, influencerID, campaignID uint) (bool, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.CollaborationRequest{}).
		Where("influencer_id = ? AND campaign_id = ? AND status IN ?",
			influencerID, campaignID,
			[]models.RequestStatus{models.RequestStatusPending, models.RequestStatusApproved}).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ListApprovedWithDeadlineBefore retrieves approved requests without delivered
// content whose last status change is older than the cutoff. Used by the
// content reminder loop.
func (r *CollaborationRequestRepositoryImpl) ListApprovedWithDeadlineBefore(ctx context.Context, deadline time.Time) ([]*models.CollaborationRequest, error) {
	db := r.getDB(ctx)

	var requests []*models.CollaborationRequest
	err := db.Preload("Campaign").Preload("Influencer").
		Where("status = ? AND content_delivered IS NULL AND updated_at < ?",
			models.RequestStatusApproved, deadline).
		Order("updated_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// ByFilter retrieves requests based on filter criteria
func (r *CollaborationRequestRepositoryImpl) ByFilter(ctx context.Context, filter models.CollaborationRequestFilter, orderBy string, limit, offset int) ([]*models.CollaborationRequest, error) {
	db := r.getDB(ctx)

	var requests []*models.CollaborationRequest
	query := r.applyFilter(db.Preload("Campaign").Preload("Campaign.Company").Preload("Influencer"), filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}

// Count returns the number of requests matching the filter
func (r *CollaborationRequestRepositoryImpl) Count(ctx context.Context, filter models.CollaborationRequestFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.CollaborationRequest{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any request matching the filter exists
func (r *CollaborationRequestRepositoryImpl) Exists(ctx context.Context, filter models.CollaborationRequestFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CollaborationRequestRepositoryImpl) applyFilter(db *gorm.DB, filter models.CollaborationRequestFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.InfluencerID != nil {
		db = db.Where("influencer_id = ?", *filter.InfluencerID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
