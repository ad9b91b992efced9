// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// ChatFlow handles conversations between influencers and companies
type ChatFlow interface {
	StartConversation(ctx context.Context, userID uint, request *dto.StartConversationRequest) (*dto.ConversationDTO, error)
	SendMessage(ctx context.Context, userID uint, conversationUUID string, request *dto.SendMessageRequest, metadata *ClientMetadata) (*dto.MessageDTO, error)
	ListConversations(ctx context.Context, userID uint, pagination dto.PaginationRequest) (*dto.ListConversationsResponse, error)
	ListMessages(ctx context.Context, userID uint, conversationUUID string, pagination dto.PaginationRequest) (*dto.ListMessagesResponse, error)
}

// ChatFlowImpl implements the chat flow
type ChatFlowImpl struct {
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	userRepo         repository.UserRepository
	campaignRepo     repository.CampaignRepository
	notificationRepo repository.NotificationRepository
	auditRepo        repository.AuditLogRepository
	db               *gorm.DB
}

// NewChatFlow creates a new chat flow instance
func NewChatFlow(
	conversationRepo repository.ConversationRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	campaignRepo repository.CampaignRepository,
	notificationRepo repository.NotificationRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) ChatFlow {
	return &ChatFlowImpl{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		campaignRepo:     campaignRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		db:               db,
	}
}

// StartConversation opens the conversation between the caller and a peer of
// the opposite account type. An existing conversation for the pair is reused.
func (cf *ChatFlowImpl) StartConversation(ctx context.Context, userID uint, request *dto.StartConversationRequest) (*dto.ConversationDTO, error) {
	caller, err := cf.requireApproved(ctx, userID)
	if err != nil {
		return nil, err
	}

	peer, err := cf.userRepo.ByUUID(ctx, request.PeerUUID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to load peer", err)
	}
	if peer == nil || !peer.CanLogin() {
		return nil, NewBusinessError("USER_NOT_FOUND", "Peer not found", ErrUserNotFound)
	}
	if peer.ID == caller.ID {
		return nil, NewBusinessError("SELF_CONVERSATION", "Cannot start a conversation with yourself", ErrSelfConversation)
	}

	var influencer, company *models.User
	switch {
	case caller.IsInfluencer() && peer.IsCompany():
		influencer, company = caller, peer
	case caller.IsCompany() && peer.IsInfluencer():
		influencer, company = peer, caller
	default:
		return nil, NewBusinessError("CONVERSATION_PAIR_INVALID", "Conversations pair one influencer with one company", ErrConversationAccessDenied)
	}

	existing, err := cf.conversationRepo.ByParticipants(ctx, influencer.ID, company.ID)
	if err != nil {
		return nil, NewBusinessError("CONVERSATION_LOOKUP_FAILED", "Failed to look up conversation", err)
	}
	if existing != nil {
		return cf.conversationDTO(ctx, existing, caller)
	}

	conversation := &models.Conversation{
		InfluencerID: influencer.ID,
		CompanyID:    company.ID,
	}
	if request.CampaignUUID != nil {
		campaign, err := cf.campaignRepo.ByUUID(ctx, *request.CampaignUUID)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to load campaign", err)
		}
		if campaign == nil {
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
		}
		conversation.CampaignID = &campaign.ID
		conversation.Campaign = campaign
	}

	if err := cf.conversationRepo.Save(ctx, conversation); err != nil {
		return nil, NewBusinessError("CONVERSATION_CREATE_FAILED", "Failed to create conversation", err)
	}

	conversation.Influencer = influencer
	conversation.Company = company
	return cf.conversationDTO(ctx, conversation, caller)
}

// SendMessage posts a message and notifies the other participant. The message
// row, the conversation touch and the notification commit together.
func (cf *ChatFlowImpl) SendMessage(ctx context.Context, userID uint, conversationUUID string, request *dto.SendMessageRequest, metadata *ClientMetadata) (*dto.MessageDTO, error) {
	if strings.TrimSpace(request.Body) == "" {
		return nil, NewBusinessError("MESSAGE_BODY_REQUIRED", "Message body is required", ErrMessageBodyRequired)
	}

	sender, err := cf.requireApproved(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversation, err := cf.participantConversation(ctx, userID, conversationUUID)
	if err != nil {
		return nil, err
	}

	recipientID := conversation.InfluencerID
	if userID == conversation.InfluencerID {
		recipientID = conversation.CompanyID
	}

	var message *models.Message
	err = repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		message = &models.Message{
			ConversationID: conversation.ID,
			SenderID:       userID,
			Body:           request.Body,
		}
		if err := cf.messageRepo.Save(ctx, message); err != nil {
			return err
		}
		if err := cf.conversationRepo.TouchLastMessage(ctx, conversation.ID, message.CreatedAt); err != nil {
			return err
		}

		return enqueueNotification(ctx, cf.notificationRepo, &recipientID, models.EventNewChatMessage, map[string]string{
			"sender_name": sender.FullName,
		}, map[string]any{
			"conversation_uuid": conversation.UUID.String(),
		})
	})
	if err != nil {
		return nil, NewBusinessError("MESSAGE_SEND_FAILED", "Failed to send message", err)
	}

	_ = cf.logMessageSent(ctx, &userID, conversation.UUID.String(), metadata)

	result := ToMessageDTO(*message)
	return &result, nil
}

// ListConversations returns the caller's conversations, most recent first,
// with per-conversation unread counters.
func (cf *ChatFlowImpl) ListConversations(ctx context.Context, userID uint, pagination dto.PaginationRequest) (*dto.ListConversationsResponse, error) {
	caller, err := cf.requireApproved(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations, err := cf.conversationRepo.ListByUser(ctx, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, NewBusinessError("CONVERSATION_LIST_FAILED", "Failed to list conversations", err)
	}

	resp := &dto.ListConversationsResponse{
		Conversations: make([]dto.ConversationDTO, 0, len(conversations)),
		Pagination: dto.PaginationResponse{
			Page:       pagination.Page,
			PageSize:   pagination.Limit(),
			TotalItems: int64(len(conversations)),
		},
	}
	for _, conversation := range conversations {
		d, err := cf.conversationDTO(ctx, conversation, caller)
		if err != nil {
			return nil, err
		}
		resp.Conversations = append(resp.Conversations, *d)
	}

	return resp, nil
}

// ListMessages returns a page of messages and marks the conversation read for
// the caller.
func (cf *ChatFlowImpl) ListMessages(ctx context.Context, userID uint, conversationUUID string, pagination dto.PaginationRequest) (*dto.ListMessagesResponse, error) {
	if _, err := cf.requireApproved(ctx, userID); err != nil {
		return nil, err
	}

	conversation, err := cf.participantConversation(ctx, userID, conversationUUID)
	if err != nil {
		return nil, err
	}

	messages, err := cf.messageRepo.ByConversationID(ctx, conversation.ID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to list messages", err)
	}
	total, err := cf.messageRepo.Count(ctx, models.MessageFilter{ConversationID: &conversation.ID})
	if err != nil {
		return nil, NewBusinessError("MESSAGE_LIST_FAILED", "Failed to count messages", err)
	}

	if err := cf.messageRepo.MarkConversationRead(ctx, conversation.ID, userID, utils.UTCNow()); err != nil {
		return nil, NewBusinessError("MESSAGE_READ_FAILED", "Failed to mark conversation read", err)
	}

	resp := &dto.ListMessagesResponse{
		Messages: make([]dto.MessageDTO, 0, len(messages)),
		Pagination: dto.PaginationResponse{
			Page:       pagination.Page,
			PageSize:   pagination.Limit(),
			TotalItems: total,
		},
	}
	for _, message := range messages {
		resp.Messages = append(resp.Messages, ToMessageDTO(*message))
	}

	return resp, nil
}

func (cf *ChatFlowImpl) conversationDTO(ctx context.Context, conversation *models.Conversation, viewer *models.User) (*dto.ConversationDTO, error) {
	unread, err := cf.messageRepo.CountUnread(ctx, conversation.ID, viewer.ID)
	if err != nil {
		return nil, NewBusinessError("CONVERSATION_LIST_FAILED", "Failed to count unread messages", err)
	}

	d := dto.ConversationDTO{
		ID:           conversation.ID,
		UUID:         conversation.UUID.String(),
		InfluencerID: conversation.InfluencerID,
		CompanyID:    conversation.CompanyID,
		UnreadCount:  unread,
		CreatedAt:    conversation.CreatedAt.Format(time.RFC3339),
	}

	peer := conversation.Influencer
	if viewer.ID == conversation.InfluencerID {
		peer = conversation.Company
	}
	if peer != nil {
		d.PeerName = peer.FullName
		if peer.BusinessName != nil && strings.TrimSpace(*peer.BusinessName) != "" {
			d.PeerName = *peer.BusinessName
		}
	}
	if conversation.Campaign != nil {
		d.CampaignTitle = &conversation.Campaign.Title
	}
	if conversation.LastMessageAt != nil {
		last := conversation.LastMessageAt.Format(time.RFC3339)
		d.LastMessageAt = &last
	}

	return &d, nil
}

func (cf *ChatFlowImpl) participantConversation(ctx context.Context, userID uint, conversationUUID string) (*models.Conversation, error) {
	conversation, err := cf.conversationRepo.ByUUID(ctx, conversationUUID)
	if err != nil {
		return nil, NewBusinessError("CONVERSATION_LOOKUP_FAILED", "Failed to load conversation", err)
	}
	if conversation == nil {
		return nil, NewBusinessError("CONVERSATION_NOT_FOUND", "Conversation not found", ErrConversationNotFound)
	}
	if conversation.InfluencerID != userID && conversation.CompanyID != userID {
		return nil, NewBusinessError("CONVERSATION_ACCESS_DENIED", "Conversation belongs to other participants", ErrConversationAccessDenied)
	}
	return conversation, nil
}

func (cf *ChatFlowImpl) requireApproved(ctx context.Context, userID uint) (*models.User, error) {
	user, err := cf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if !user.CanLogin() {
		return nil, NewBusinessError("USER_NOT_APPROVED", "Account is not approved", ErrUserNotApproved)
	}
	return user, nil
}

func (cf *ChatFlowImpl) logMessageSent(ctx context.Context, userID *uint, conversationUUID string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	description := "Message sent in conversation: " + conversationUUID
	audit := &models.AuditLog{
		UserID:      userID,
		Action:      models.AuditActionMessageSent,
		Description: &description,
		Success:     utils.ToPtr(true),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return cf.auditRepo.Save(ctx, audit)
}
