// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// ConversationRepositoryImpl implements ConversationRepository interface
type ConversationRepositoryImpl struct {
	*BaseRepository[models.Conversation, models.ConversationFilter]
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &ConversationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Conversation, models.ConversationFilter](db),
	}
}

// ByUUID retrieves a conversation by UUID
func (r *ConversationRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Conversation, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.ConversationFilter{UUID: &parsedUUID}
	conversations, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(conversations) == 0 {
		return nil, nil
	}

	return conversations[0], nil
}

// ByParticipants retrieves the conversation between an influencer and a company
func (r *ConversationRepositoryImpl) ByParticipants(ctx context.Context, influencerID, companyID uint) (*models.Conversation, error) {
	filter := models.ConversationFilter{InfluencerID: &influencerID, CompanyID: &companyID}
	conversations, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(conversations) == 0 {
		return nil, nil
	}

	return conversations[0], nil
}

// ListByUser retrieves conversations a user participates in, most recently
// active first.
func (r *ConversationRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Conversation, error) {
	db := r.getDB(ctx)

	var conversations []*models.Conversation
	query := db.Preload("Influencer").Preload("Company").Preload("Campaign").
		Where("influencer_id = ? OR company_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	return conversations, nil
}

// TouchLastMessage stamps the latest message time on a conversation
func (r *ConversationRepositoryImpl) TouchLastMessage(ctx context.Context, id uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", at).Error
}

// ByFilter retrieves conversations based on filter criteria
func (r *ConversationRepositoryImpl) ByFilter(ctx context.Context, filter models.ConversationFilter, orderBy string, limit, offset int) ([]*models.Conversation, error) {
	db := r.getDB(ctx)

	var conversations []*models.Conversation
	query := r.applyFilter(db.Preload("Influencer").Preload("Company").Preload("Campaign"), filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	return conversations, nil
}

// Count returns the number of conversations matching the filter
func (r *ConversationRepositoryImpl) Count(ctx context.Context, filter models.ConversationFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Conversation{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any conversation matching the filter exists
func (r *ConversationRepositoryImpl) Exists(ctx context.Context, filter models.ConversationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ConversationRepositoryImpl) applyFilter(db *gorm.DB, filter models.ConversationFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.InfluencerID != nil {
		db = db.Where("influencer_id = ?", *filter.InfluencerID)
	}
	if filter.CompanyID != nil {
		db = db.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}

	return db
}

// MessageRepositoryImpl implements MessageRepository interface
type MessageRepositoryImpl struct {
	*BaseRepository[models.Message, models.MessageFilter]
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Message, models.MessageFilter](db),
	}
}

// ByConversationID retrieves messages of a conversation, oldest first
func (r *MessageRepositoryImpl) ByConversationID(ctx context.Context, conversationID uint, limit, offset int) ([]*models.Message, error) {
	filter := models.MessageFilter{ConversationID: &conversationID}
	return r.ByFilter(ctx, filter, "created_at ASC", limit, offset)
}

// CountUnread counts messages in a conversation the reader has not seen.
// Messages sent by the reader are never counted.
func (r *MessageRepositoryImpl) CountUnread(ctx context.Context, conversationID, readerID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// MarkConversationRead stamps the read time on every unread message addressed
// to the reader.
func (r *MessageRepositoryImpl) MarkConversationRead(ctx context.Context, conversationID, readerID uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", at).Error
}

// ByFilter retrieves messages based on filter criteria
func (r *MessageRepositoryImpl) ByFilter(ctx context.Context, filter models.MessageFilter, orderBy string, limit, offset int) ([]*models.Message, error) {
	db := r.getDB(ctx)

	var messages []*models.Message
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

	err := query.Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// Count returns the number of messages matching the filter
func (r *MessageRepositoryImpl) Count(ctx context.Context, filter models.MessageFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Message{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any message matching the filter exists
func (r *MessageRepositoryImpl) Exists(ctx context.Context, filter models.MessageFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *MessageRepositoryImpl) applyFilter(db *gorm.DB, filter models.MessageFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.ConversationID != nil {
		db = db.Where("conversation_id = ?", *filter.ConversationID)
	}
	if filter.SenderID != nil {
		db = db.Where("sender_id = ?", *filter.SenderID)
	}
	if filter.Unread != nil {
		if *filter.Unread {
			db = db.Where("read_at IS NULL")
		} else {
			db = db.Where("read_at IS NOT NULL")
		}
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
