// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// PaymentSessionRepositoryImpl implements PaymentSessionRepository interface
type PaymentSessionRepositoryImpl struct {
	*BaseRepository[models.PaymentSession, models.PaymentSessionFilter]
}

// NewPaymentSessionRepository creates a new payment session repository
func NewPaymentSessionRepository(db *gorm.DB) PaymentSessionRepository {
	return &PaymentSessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PaymentSession, models.PaymentSessionFilter](db),
	}
}

// ByStripeSessionID retrieves a payment session by its Stripe checkout session ID
func (r *PaymentSessionRepositoryImpl) ByStripeSessionID(ctx context.Context, stripeSessionID string) (*models.PaymentSession, error) {
	filter := models.PaymentSessionFilter{StripeSessionID: &stripeSessionID}
	sessions, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return nil, nil
	}

	return sessions[0], nil
}

// Update updates a payment session
func (r *PaymentSessionRepositoryImpl) Update(ctx context.Context, session models.PaymentSession) error {
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
	session.UpdatedAt = &now

	err = db.Save(&session).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves payment sessions based on filter criteria
func (r *PaymentSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.PaymentSessionFilter, orderBy string, limit, offset int) ([]*models.PaymentSession, error) {
	db := r.getDB(ctx)

	var sessions []*models.PaymentSession
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

	err := query.Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// Count returns the number of payment sessions matching the filter
func (r *PaymentSessionRepositoryImpl) Count(ctx context.Context, filter models.PaymentSessionFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.PaymentSession{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any payment session matching the filter exists
func (r *PaymentSessionRepositoryImpl) Exists(ctx context.Context, filter models.PaymentSessionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PaymentSessionRepositoryImpl) applyFilter(db *gorm.DB, filter models.PaymentSessionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.SubscriptionID != nil {
		db = db.Where("subscription_id = ?", *filter.SubscriptionID)
	}
	if filter.CompanyID != nil {
		db = db.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.StripeSessionID != nil {
		db = db.Where("stripe_session_id = ?", *filter.StripeSessionID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
