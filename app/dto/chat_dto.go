// Package dto contains Data Transfer Objects for API request and response structures
package dto

// StartConversationRequest opens (or returns) the conversation with a peer
type StartConversationRequest struct {
	PeerUUID     string  `json:"peer_uuid" validate:"required,uuid"`
	CampaignUUID *string `json:"campaign_uuid,omitempty" validate:"omitempty,uuid"`
}

// SendMessageRequest posts a message into a conversation
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// MessageDTO represents a chat message for API responses
type MessageDTO struct {
	ID        uint    `json:"id" example:"901"`
	UUID      string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	SenderID  uint    `json:"sender_id" example:"123"`
	Body      string  `json:"body"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at" example:"2025-02-10T12:00:00Z"`
}

// ConversationDTO represents a conversation for API responses
type ConversationDTO struct {
	ID            uint    `json:"id" example:"12"`
	UUID          string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	InfluencerID  uint    `json:"influencer_id" example:"123"`
	CompanyID     uint    `json:"company_id" example:"7"`
	PeerName      string  `json:"peer_name,omitempty" example:"Restaurante La Plaza"`
	CampaignTitle *string `json:"campaign_title,omitempty"`
	LastMessageAt *string `json:"last_message_at,omitempty"`
	UnreadCount   int64   `json:"unread_count" example:"2"`
	CreatedAt     string  `json:"created_at" example:"2025-02-01T09:00:00Z"`
}

// ListConversationsResponse represents a page of conversations
type ListConversationsResponse struct {
	Conversations []ConversationDTO  `json:"conversations"`
	Pagination    PaginationResponse `json:"pagination"`
}

// ListMessagesResponse represents a page of messages
type ListMessagesResponse struct {
	Messages   []MessageDTO       `json:"messages"`
	Pagination PaginationResponse `json:"pagination"`
}
