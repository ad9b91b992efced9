package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/zyromarketplace/zyro-backend/utils"
	"gorm.io/gorm"
)

// Conversation pairs an influencer with a company, optionally anchored to a
// campaign they collaborate on.
type Conversation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_conversations_uuid" json:"uuid"`
	InfluencerID uint      `gorm:"not null;index:idx_conversations_influencer_id;uniqueIndex:uk_conversations_pair" json:"influencer_id"`
	CompanyID    uint      `gorm:"not null;index:idx_conversations_company_id;uniqueIndex:uk_conversations_pair" json:"company_id"`
	CampaignID   *uint     `gorm:"index:idx_conversations_campaign_id" json:"campaign_id,omitempty"`

	LastMessageAt *time.Time `gorm:"index:idx_conversations_last_message_at" json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Influencer *User     `gorm:"foreignKey:InfluencerID;references:ID" json:"influencer,omitempty"`
	Company    *User     `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Campaign   *Campaign `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	Messages   []Message `gorm:"foreignKey:ConversationID" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// BeforeCreate is called before creating a new record
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// ConversationFilter represents filter criteria for conversation queries
type ConversationFilter struct {
	ID           *uint
	UUID         *uuid.UUID
	InfluencerID *uint
	CompanyID    *uint
	CampaignID   *uint
}

// Message is a single chat message inside a conversation
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_messages_uuid" json:"uuid"`
	ConversationID uint      `gorm:"not null;index:idx_messages_conversation_id" json:"conversation_id"`
	SenderID       uint      `gorm:"not null;index:idx_messages_sender_id" json:"sender_id"`

	Body   string     `gorm:"type:text;not null" json:"body"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_messages_created_at" json:"created_at"`

	// Relations
	Conversation *Conversation `gorm:"foreignKey:ConversationID;references:ID" json:"conversation,omitempty"`
	Sender       *User         `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// BeforeCreate is called before creating a new record
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = utils.UTCNow()
	}
	return nil
}

// MessageFilter represents filter criteria for message queries
type MessageFilter struct {
	ID             *uint
	UUID           *uuid.UUID
	ConversationID *uint
	SenderID       *uint
	Unread         *bool
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}
