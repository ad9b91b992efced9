// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/zyromarketplace/zyro-backend/app/dto"
	"github.com/zyromarketplace/zyro-backend/app/services"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/repository"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// Plan describes a purchasable subscription plan
type Plan struct {
	ID           string
	Name         string
	Months       int
	MonthlyPrice int64 // cents
}

// plans is the fixed plan catalog. Longer commitments get a lower monthly
// price.
var plans = []Plan{
	{ID: utils.SubscriptionPlan3Months, Name: "Plan 3 meses", Months: 3, MonthlyPrice: 49900},
	{ID: utils.SubscriptionPlan6Months, Name: "Plan 6 meses", Months: 6, MonthlyPrice: 39900},
	{ID: utils.SubscriptionPlan12Months, Name: "Plan 12 meses", Months: 12, MonthlyPrice: 29900},
}

// PlanByID looks up a plan in the catalog
func PlanByID(planID string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == planID {
			return p, true
		}
	}
	return Plan{}, false
}

// SubscriptionFlow handles plan listing, checkout and the webhook lifecycle
type SubscriptionFlow interface {
	ListPlans(ctx context.Context) *dto.ListPlansResponse
	CreateCheckoutSession(ctx context.Context, companyID uint, request *dto.CreateCheckoutSessionRequest, metadata *ClientMetadata) (*dto.CreateCheckoutSessionResponse, error)
	VerifyCheckoutSession(ctx context.Context, companyID uint, request *dto.VerifyCheckoutSessionRequest, metadata *ClientMetadata) (*dto.VerifyCheckoutSessionResponse, error)
	SubscriptionInfo(ctx context.Context, companyID uint) (*dto.SubscriptionDTO, error)
	CancelSubscription(ctx context.Context, companyID uint, metadata *ClientMetadata) (*dto.SubscriptionDTO, error)
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}

// SubscriptionFlowImpl implements the subscription flow
type SubscriptionFlowImpl struct {
	subscriptionRepo repository.SubscriptionRepository
	sessionRepo      repository.PaymentSessionRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	auditRepo        repository.AuditLogRepository
	stripe           services.StripeClient
	db               *gorm.DB
}

// NewSubscriptionFlow creates a new subscription flow instance
func NewSubscriptionFlow(
	subscriptionRepo repository.SubscriptionRepository,
	sessionRepo repository.PaymentSessionRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	auditRepo repository.AuditLogRepository,
	stripe services.StripeClient,
	db *gorm.DB,
) SubscriptionFlow {
	return &SubscriptionFlowImpl{
		subscriptionRepo: subscriptionRepo,
		sessionRepo:      sessionRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		stripe:           stripe,
		db:               db,
	}
}

// ListPlans returns the fixed plan catalog
func (sf *SubscriptionFlowImpl) ListPlans(ctx context.Context) *dto.ListPlansResponse {
	resp := &dto.ListPlansResponse{Plans: make([]dto.PlanDTO, 0, len(plans))}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, dto.PlanDTO{
			ID:           p.ID,
			Name:         p.Name,
			Months:       p.Months,
			MonthlyPrice: p.MonthlyPrice,
			Currency:     utils.EURCurrency,
		})
	}
	return resp
}

// CreateCheckoutSession opens a hosted checkout for the given plan and
// persists a pending subscription plus the session round-trip row.
func (sf *SubscriptionFlowImpl) CreateCheckoutSession(ctx context.Context, companyID uint, request *dto.CreateCheckoutSessionRequest, metadata *ClientMetadata) (*dto.CreateCheckoutSessionResponse, error) {
	company, err := sf.requireCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	plan, ok := PlanByID(request.PlanID)
	if !ok {
		return nil, NewBusinessErrorf("UNKNOWN_PLAN", "Unknown plan: %s", ErrUnknownPlan, request.PlanID)
	}

	session, err := sf.stripe.CreateCheckoutSession(ctx, services.CheckoutSessionParams{
		PlanID:          plan.ID,
		PriceAmount:     plan.MonthlyPrice,
		Currency:        utils.EURCurrency,
		ProductName:     plan.Name,
		IntervalMonths:  plan.Months,
		CustomerEmail:   company.Email,
		ClientReference: strconv.FormatUint(uint64(company.ID), 10),
		SuccessURL:      request.SuccessURL,
		CancelURL:       request.CancelURL,
	})
	if err != nil {
		errMsg := fmt.Sprintf("Checkout session creation failed: %s", err.Error())
		_ = sf.logPaymentAction(ctx, &companyID, models.AuditActionCheckoutSessionFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("CHECKOUT_SESSION_FAILED", "Failed to create checkout session", err)
	}

	err = repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		subscription := &models.Subscription{
			CompanyID:    company.ID,
			Status:       models.SubscriptionStatusPending,
			PlanID:       plan.ID,
			MonthlyPrice: plan.MonthlyPrice,
			Currency:     utils.EURCurrency,
		}
		if err := sf.subscriptionRepo.Save(ctx, subscription); err != nil {
			return err
		}

		return sf.sessionRepo.Save(ctx, &models.PaymentSession{
			SubscriptionID:  subscription.ID,
			CompanyID:       company.ID,
			Status:          models.PaymentSessionStatusCreated,
			StripeSessionID: session.ID,
			CheckoutURL:     session.URL,
			SuccessURL:      request.SuccessURL,
			CancelURL:       request.CancelURL,
			AmountTotal:     session.AmountTotal,
		})
	})
	if err != nil {
		return nil, NewBusinessError("CHECKOUT_SESSION_FAILED", "Failed to persist checkout session", err)
	}

	msg := fmt.Sprintf("Checkout session created: %s", session.ID)
	_ = sf.logPaymentAction(ctx, &companyID, models.AuditActionCheckoutSessionCreated, msg, true, nil, metadata)

	return &dto.CreateCheckoutSessionResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
		AmountTotal: session.AmountTotal,
		Currency:    utils.EURCurrency,
	}, nil
}

// VerifyCheckoutSession retrieves the session from the processor and, when
// paid, activates the subscription. Safe to call repeatedly.
func (sf *SubscriptionFlowImpl) VerifyCheckoutSession(ctx context.Context, companyID uint, request *dto.VerifyCheckoutSessionRequest, metadata *ClientMetadata) (*dto.VerifyCheckoutSessionResponse, error) {
	paymentSession, err := sf.sessionRepo.ByStripeSessionID(ctx, request.SessionID)
	if err != nil {
		return nil, NewBusinessError("PAYMENT_SESSION_LOOKUP_FAILED", "Failed to load payment session", err)
	}
	if paymentSession == nil || paymentSession.CompanyID != companyID {
		return nil, NewBusinessError("PAYMENT_SESSION_NOT_FOUND", "Payment session not found", ErrPaymentSessionNotFound)
	}

	remote, err := sf.stripe.GetCheckoutSession(ctx, request.SessionID)
	if err != nil {
		return nil, NewBusinessError("CHECKOUT_SESSION_LOOKUP_FAILED", "Failed to retrieve checkout session", err)
	}

	if remote.PaymentStatus != "paid" {
		return &dto.VerifyCheckoutSessionResponse{Paid: false}, nil
	}

	subscription, err := sf.activatePaidSession(ctx, paymentSession, remote)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Subscription activated: %s", subscription.UUID)
	_ = sf.logPaymentAction(ctx, &companyID, models.AuditActionSubscriptionActivated, msg, true, nil, metadata)

	result := ToSubscriptionDTO(*subscription)
	return &dto.VerifyCheckoutSessionResponse{Paid: true, Subscription: &result}, nil
}

// SubscriptionInfo returns the company's latest subscription
func (sf *SubscriptionFlowImpl) SubscriptionInfo(ctx context.Context, companyID uint) (*dto.SubscriptionDTO, error) {
	if _, err := sf.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	subscription, err := sf.subscriptionRepo.ByCompanyID(ctx, companyID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_LOOKUP_FAILED", "Failed to load subscription", err)
	}
	if subscription == nil {
		return nil, NewBusinessError("SUBSCRIPTION_NOT_FOUND", "No subscription found", ErrSubscriptionNotFound)
	}

	result := ToSubscriptionDTO(*subscription)
	return &result, nil
}

// CancelSubscription cancels at the processor first, then flags the local row
func (sf *SubscriptionFlowImpl) CancelSubscription(ctx context.Context, companyID uint, metadata *ClientMetadata) (*dto.SubscriptionDTO, error) {
	if _, err := sf.requireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	subscription, err := sf.subscriptionRepo.ByCompanyID(ctx, companyID)
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_LOOKUP_FAILED", "Failed to load subscription", err)
	}
	if subscription == nil {
		return nil, NewBusinessError("SUBSCRIPTION_NOT_FOUND", "No subscription found", ErrSubscriptionNotFound)
	}
	if !subscription.IsBillable() {
		return nil, NewBusinessError("SUBSCRIPTION_NOT_ACTIVE", "Subscription is not active", ErrSubscriptionNotActive)
	}

	if subscription.StripeSubscriptionID != nil {
		if _, err := sf.stripe.CancelSubscription(ctx, *subscription.StripeSubscriptionID); err != nil {
			return nil, NewBusinessError("SUBSCRIPTION_CANCEL_FAILED", "Failed to cancel subscription with processor", err)
		}
	}

	if err := sf.subscriptionRepo.UpdateStatus(ctx, subscription.ID, models.SubscriptionStatusCancelled); err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_CANCEL_FAILED", "Failed to cancel subscription", err)
	}

	msg := fmt.Sprintf("Subscription cancelled: %s", subscription.UUID)
	_ = sf.logPaymentAction(ctx, &companyID, models.AuditActionSubscriptionCancelled, msg, true, nil, metadata)

	subscription.Status = models.SubscriptionStatusCancelled
	now := utils.UTCNow()
	subscription.CancelledAt = &now
	result := ToSubscriptionDTO(*subscription)
	return &result, nil
}

// HandleWebhook verifies the signature and dispatches processor events.
// Events for unknown sessions or subscriptions are ignored so replays and
// out-of-order delivery stay harmless.
func (sf *SubscriptionFlowImpl) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := sf.stripe.VerifyWebhookSignature(payload, signatureHeader); err != nil {
		return NewBusinessError("WEBHOOK_SIGNATURE_INVALID", "Webhook signature verification failed", ErrInvalidWebhookSignature)
	}

	var event services.StripeWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return NewBusinessError("WEBHOOK_PAYLOAD_INVALID", "Failed to decode webhook payload", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var session services.StripeCheckoutSession
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			return NewBusinessError("WEBHOOK_PAYLOAD_INVALID", "Failed to decode checkout session", err)
		}
		return sf.handleCheckoutCompleted(ctx, &session)

	case "invoice.payment_succeeded":
		var invoice struct {
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(event.Data.Object, &invoice); err != nil {
			return NewBusinessError("WEBHOOK_PAYLOAD_INVALID", "Failed to decode invoice", err)
		}
		return sf.setStatusByStripeID(ctx, invoice.Subscription, models.SubscriptionStatusActive, "")

	case "invoice.payment_failed":
		var invoice struct {
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(event.Data.Object, &invoice); err != nil {
			return NewBusinessError("WEBHOOK_PAYLOAD_INVALID", "Failed to decode invoice", err)
		}
		return sf.setStatusByStripeID(ctx, invoice.Subscription, models.SubscriptionStatusPastDue, models.AuditActionSubscriptionPaymentFailed)

	case "customer.subscription.deleted":
		var remote services.StripeSubscription
		if err := json.Unmarshal(event.Data.Object, &remote); err != nil {
			return NewBusinessError("WEBHOOK_PAYLOAD_INVALID", "Failed to decode subscription", err)
		}
		return sf.setStatusByStripeID(ctx, remote.ID, models.SubscriptionStatusCancelled, "")

	case "customer.subscription.updated":
		var remote services.StripeSubscription
		if err := json.Unmarshal(event.Data.Object, &remote); err != nil {
			return NewBusinessError("WEBHOOK_PAYLOAD_INVALID", "Failed to decode subscription", err)
		}
		return sf.syncSubscription(ctx, &remote)
	}

	// Unhandled event types are acknowledged without action.
	return nil
}

// activatePaidSession marks the session completed and the subscription active
// in one transaction, enqueueing the welcome notification. Re-running it on a
// completed session is a no-op.
func (sf *SubscriptionFlowImpl) activatePaidSession(ctx context.Context, paymentSession *models.PaymentSession, remote *services.StripeCheckoutSession) (*models.Subscription, error) {
	var subscription *models.Subscription

	err := repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		var err error
		subscription, err = sf.subscriptionRepo.ByID(ctx, paymentSession.SubscriptionID)
		if err != nil {
			return err
		}
		if subscription == nil {
			return ErrSubscriptionNotFound
		}

		if paymentSession.Status == models.PaymentSessionStatusCompleted {
			return nil
		}

		now := utils.UTCNow()
		paymentSession.Status = models.PaymentSessionStatusCompleted
		paymentSession.PaymentStatus = utils.ToPtr(remote.PaymentStatus)
		paymentSession.CompletedAt = &now
		if err := sf.sessionRepo.Update(ctx, *paymentSession); err != nil {
			return err
		}

		subscription.Status = models.SubscriptionStatusActive
		if remote.Customer != "" {
			subscription.StripeCustomerID = utils.ToPtr(remote.Customer)
		}
		if remote.Subscription != "" {
			subscription.StripeSubscriptionID = utils.ToPtr(remote.Subscription)
		}
		if err := sf.subscriptionRepo.Update(ctx, *subscription); err != nil {
			return err
		}

		plan, _ := PlanByID(subscription.PlanID)
		return enqueueNotification(ctx, sf.notificationRepo, &subscription.CompanyID, models.EventSubscriptionStarted, map[string]string{
			"plan_name": plan.Name,
		}, nil)
	})
	if err != nil {
		return nil, NewBusinessError("SUBSCRIPTION_ACTIVATE_FAILED", "Failed to activate subscription", err)
	}

	return subscription, nil
}

func (sf *SubscriptionFlowImpl) handleCheckoutCompleted(ctx context.Context, remote *services.StripeCheckoutSession) error {
	paymentSession, err := sf.sessionRepo.ByStripeSessionID(ctx, remote.ID)
	if err != nil {
		return NewBusinessError("PAYMENT_SESSION_LOOKUP_FAILED", "Failed to load payment session", err)
	}
	if paymentSession == nil {
		return nil
	}
	if remote.PaymentStatus != "paid" {
		return nil
	}

	_, err = sf.activatePaidSession(ctx, paymentSession, remote)
	return err
}

func (sf *SubscriptionFlowImpl) setStatusByStripeID(ctx context.Context, stripeSubscriptionID string, status models.SubscriptionStatus, auditAction string) error {
	if stripeSubscriptionID == "" {
		return nil
	}

	subscription, err := sf.subscriptionRepo.ByStripeSubscriptionID(ctx, stripeSubscriptionID)
	if err != nil {
		return NewBusinessError("SUBSCRIPTION_LOOKUP_FAILED", "Failed to load subscription", err)
	}
	if subscription == nil {
		return nil
	}
	if subscription.Status == status {
		return nil
	}

	err = repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		if err := sf.subscriptionRepo.UpdateStatus(ctx, subscription.ID, status); err != nil {
			return err
		}

		if status == models.SubscriptionStatusPastDue {
			plan, _ := PlanByID(subscription.PlanID)
			return enqueueNotification(ctx, sf.notificationRepo, &subscription.CompanyID, models.EventPaymentReminder, map[string]string{
				"plan_name": plan.Name,
			}, nil)
		}
		return nil
	})
	if err != nil {
		return NewBusinessError("SUBSCRIPTION_STATUS_FAILED", "Failed to update subscription status", err)
	}

	if auditAction != "" {
		msg := fmt.Sprintf("Subscription %s status: %s", subscription.UUID, status)
		_ = sf.logPaymentAction(ctx, &subscription.CompanyID, auditAction, msg, true, nil, nil)
	}

	return nil
}

func (sf *SubscriptionFlowImpl) syncSubscription(ctx context.Context, remote *services.StripeSubscription) error {
	subscription, err := sf.subscriptionRepo.ByStripeSubscriptionID(ctx, remote.ID)
	if err != nil {
		return NewBusinessError("SUBSCRIPTION_LOOKUP_FAILED", "Failed to load subscription", err)
	}
	if subscription == nil {
		return nil
	}

	switch remote.Status {
	case "active":
		subscription.Status = models.SubscriptionStatusActive
	case "past_due":
		subscription.Status = models.SubscriptionStatusPastDue
	case "canceled", "unpaid":
		subscription.Status = models.SubscriptionStatusCancelled
	}
	if remote.CurrentPeriodEnd > 0 {
		subscription.CurrentPeriodEnd = utils.ToPtr(utils.FromUnix(remote.CurrentPeriodEnd))
	}

	if err := sf.subscriptionRepo.Update(ctx, *subscription); err != nil {
		return NewBusinessError("SUBSCRIPTION_UPDATE_FAILED", "Failed to sync subscription", err)
	}
	return nil
}

func (sf *SubscriptionFlowImpl) requireCompany(ctx context.Context, userID uint) (*models.User, error) {
	user, err := sf.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to load user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if !user.IsCompany() {
		return nil, NewBusinessError("NOT_COMPANY", "Only company accounts can manage subscriptions", ErrNotCompany)
	}
	if !user.CanLogin() {
		return nil, NewBusinessError("USER_NOT_APPROVED", "Account is not approved", ErrUserNotApproved)
	}
	return user, nil
}

func (sf *SubscriptionFlowImpl) logPaymentAction(ctx context.Context, userID *uint, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
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

	return sf.auditRepo.Save(ctx, audit)
}
