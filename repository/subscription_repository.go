// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// SubscriptionRepositoryImpl implements SubscriptionRepository interface
type SubscriptionRepositoryImpl struct {
	*BaseRepository[models.Subscription, models.SubscriptionFilter]
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Subscription, models.SubscriptionFilter](db),
	}
}

// ByUUID retrieves a subscription by UUID
func (r *SubscriptionRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Subscription, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.SubscriptionFilter{UUID: &parsedUUID}
	subscriptions, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(subscriptions) == 0 {
		return nil, nil
	}

	return subscriptions[0], nil
}

// ByCompanyID retrieves the latest subscription of a company
func (r *SubscriptionRepositoryImpl) ByCompanyID(ctx context.Context, companyID uint) (*models.Subscription, error) {
	filter := models.SubscriptionFilter{CompanyID: &companyID}
	subscriptions, err := r.ByFilter(ctx, filter, "created_at DESC", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(subscriptions) == 0 {
		return nil, nil
	}

	return subscriptions[0], nil
}

// ByStripeSubscriptionID retrieves a subscription by its Stripe identifier
func (r *SubscriptionRepositoryImpl) ByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error) {
	filter := models.SubscriptionFilter{StripeSubscriptionID: &stripeSubscriptionID}
	subscriptions, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(subscriptions) == 0 {
		return nil, nil
	}

	return subscriptions[0], nil
}

// Update updates a subscription
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscription models.Subscription) error {
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
	subscription.UpdatedAt = &now

	err = db.Save(&subscription).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateStatus updates only the status of a subscription
func (r *SubscriptionRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.SubscriptionStatus) error {
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

	updates := map[string]any{
		"status":     status,
		"updated_at": utils.UTCNow(),
	}
	if status == models.SubscriptionStatusCancelled {
		updates["cancelled_at"] = utils.UTCNow()
	}

	err = db.Model(&models.Subscription{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves subscriptions based on filter criteria
func (r *SubscriptionRepositoryImpl) ByFilter(ctx context.Context, filter models.SubscriptionFilter, orderBy string, limit, offset int) ([]*models.Subscription, error) {
	db := r.getDB(ctx)

	var subscriptions []*models.Subscription
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}

	return subscriptions, nil
}

// Count returns the number of subscriptions matching the filter
func (r *SubscriptionRepositoryImpl) Count(ctx context.Context, filter models.SubscriptionFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Subscription{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any subscription matching the filter exists
func (r *SubscriptionRepositoryImpl) Exists(ctx context.Context, filter models.SubscriptionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SubscriptionRepositoryImpl) applyFilter(db *gorm.DB, filter models.SubscriptionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CompanyID != nil {
		db = db.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.PlanID != nil {
		db = db.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.StripeCustomerID != nil {
		db = db.Where("stripe_customer_id = ?", *filter.StripeCustomerID)
	}
	if filter.StripeSubscriptionID != nil {
		db = db.Where("stripe_subscription_id = ?", *filter.StripeSubscriptionID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
