// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound        = errors.New("user not found")
	ErrUserNotApproved     = errors.New("user is not approved")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrAccountTypeNotFound = errors.New("account type not found")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrNotInfluencer       = errors.New("user is not an influencer")
	ErrNotCompany          = errors.New("user is not a company")

	// Influencer account errors
	ErrInfluencerFieldsRequired = errors.New("social handles are required for influencer accounts")
	ErrCompanyFieldsRequired    = errors.New("company fields are required for business accounts")

	// Admin errors
	ErrAdminNotFound  = errors.New("admin not found")
	ErrAdminInactive  = errors.New("admin account is inactive")
	ErrInvalidCaptcha = errors.New("captcha verification failed")
	ErrUserNotPending = errors.New("user is not pending approval")

	// Campaign-related errors
	ErrCampaignNotFound         = errors.New("campaign not found")
	ErrCampaignAccessDenied     = errors.New("campaign access denied")
	ErrCampaignNotOpen          = errors.New("campaign is not open for requests")
	ErrCampaignNotEditable      = errors.New("campaign is not editable in its current status")
	ErrCampaignTitleRequired    = errors.New("campaign title is required")
	ErrCampaignCityRequired     = errors.New("campaign city is required")
	ErrCampaignCategoryRequired = errors.New("campaign category is required")

	// Collaboration request errors
	ErrRequestNotFound               = errors.New("collaboration request not found")
	ErrRequestAccessDenied           = errors.New("collaboration request access denied")
	ErrDuplicateCollaborationRequest = errors.New("an open request for this campaign already exists")
	ErrIllegalStatusTransition       = errors.New("illegal status transition")
	ErrNotEligible                   = errors.New("influencer does not meet campaign requirements")
	ErrRequestDetailsRequired        = errors.New("exactly one of reservation or delivery details is required")
	ErrRequestNotApproved            = errors.New("request is not approved")
	ErrContentAlreadyDelivered       = errors.New("content has already been delivered")
	ErrNoContentAssets               = errors.New("content delivery must include at least one asset")

	// Subscription and payment errors
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrSubscriptionRequired     = errors.New("an active subscription is required")
	ErrSubscriptionNotActive    = errors.New("subscription is not active")
	ErrUnknownPlan              = errors.New("unknown subscription plan")
	ErrPaymentSessionNotFound   = errors.New("payment session not found")
	ErrPaymentSessionIncomplete = errors.New("payment session is not completed")
	ErrInvalidWebhookSignature  = errors.New("invalid webhook signature")

	// Chat errors
	ErrConversationNotFound     = errors.New("conversation not found")
	ErrConversationAccessDenied = errors.New("conversation access denied")
	ErrMessageBodyRequired      = errors.New("message body is required")
	ErrSelfConversation         = errors.New("cannot open a conversation with yourself")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// IsBusinessError reports whether err already carries a business error code
// somewhere in its chain.
func IsBusinessError(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}

// AsBusinessError extracts the outermost BusinessError from the chain
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsUserNotApproved(err error) bool {
	return errors.Is(err, ErrUserNotApproved)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsInvalidCaptcha(err error) bool {
	return errors.Is(err, ErrInvalidCaptcha)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignAccessDenied(err error) bool {
	return errors.Is(err, ErrCampaignAccessDenied)
}

func IsCampaignNotOpen(err error) bool {
	return errors.Is(err, ErrCampaignNotOpen)
}

func IsRequestNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound)
}

func IsDuplicateCollaborationRequest(err error) bool {
	return errors.Is(err, ErrDuplicateCollaborationRequest)
}

func IsIllegalStatusTransition(err error) bool {
	return errors.Is(err, ErrIllegalStatusTransition)
}

func IsNotEligible(err error) bool {
	return errors.Is(err, ErrNotEligible)
}

func IsSubscriptionRequired(err error) bool {
	return errors.Is(err, ErrSubscriptionRequired)
}

func IsInvalidWebhookSignature(err error) bool {
	return errors.Is(err, ErrInvalidWebhookSignature)
}

func IsConversationNotFound(err error) bool {
	return errors.Is(err, ErrConversationNotFound)
}

func IsConversationAccessDenied(err error) bool {
	return errors.Is(err, ErrConversationAccessDenied)
}

func IsSelfConversation(err error) bool {
	return errors.Is(err, ErrSelfConversation)
}

func IsMessageBodyRequired(err error) bool {
	return errors.Is(err, ErrMessageBodyRequired)
}

func IsUserNotPending(err error) bool {
	return errors.Is(err, ErrUserNotPending)
}

func IsNotInfluencer(err error) bool {
	return errors.Is(err, ErrNotInfluencer)
}

func IsNotCompany(err error) bool {
	return errors.Is(err, ErrNotCompany)
}

func IsCampaignNotEditable(err error) bool {
	return errors.Is(err, ErrCampaignNotEditable)
}

func IsRequestAccessDenied(err error) bool {
	return errors.Is(err, ErrRequestAccessDenied)
}

func IsRequestNotApproved(err error) bool {
	return errors.Is(err, ErrRequestNotApproved)
}

func IsContentAlreadyDelivered(err error) bool {
	return errors.Is(err, ErrContentAlreadyDelivered)
}

func IsNoContentAssets(err error) bool {
	return errors.Is(err, ErrNoContentAssets)
}

func IsUnknownPlan(err error) bool {
	return errors.Is(err, ErrUnknownPlan)
}

func IsSubscriptionNotFound(err error) bool {
	return errors.Is(err, ErrSubscriptionNotFound)
}

func IsSubscriptionNotActive(err error) bool {
	return errors.Is(err, ErrSubscriptionNotActive)
}

func IsPaymentSessionNotFound(err error) bool {
	return errors.Is(err, ErrPaymentSessionNotFound)
}
