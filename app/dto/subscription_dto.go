// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateCheckoutSessionRequest starts a hosted Stripe checkout for a plan
type CreateCheckoutSessionRequest struct {
	PlanID     string `json:"plan_id" validate:"required,oneof=plan_3_months plan_6_months plan_12_months" example:"plan_6_months"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

// CreateCheckoutSessionResponse carries the hosted checkout redirect
type CreateCheckoutSessionResponse struct {
	SessionID   string `json:"session_id" example:"cs_test_a1b2c3"`
	CheckoutURL string `json:"checkout_url" example:"https://checkout.stripe.com/c/pay/cs_test_a1b2c3"`
	AmountTotal int64  `json:"amount_total" example:"29900"`
	Currency    string `json:"currency" example:"eur"`
}

// VerifyCheckoutSessionRequest confirms a checkout session after redirect
type VerifyCheckoutSessionRequest struct {
	SessionID string `json:"session_id" validate:"required" example:"cs_test_a1b2c3"`
}

// SubscriptionDTO represents subscription data for API responses
type SubscriptionDTO struct {
	ID               uint    `json:"id" example:"3"`
	UUID             string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	PlanID           string  `json:"plan_id" example:"plan_6_months"`
	Status           string  `json:"status" example:"active"`
	MonthlyPrice     int64   `json:"monthly_price" example:"39900"`
	Currency         string  `json:"currency" example:"eur"`
	CurrentPeriodEnd *string `json:"current_period_end,omitempty" example:"2025-07-15T00:00:00Z"`
	CancelledAt      *string `json:"cancelled_at,omitempty"`
	CreatedAt        string  `json:"created_at" example:"2025-01-15T10:30:00Z"`
}

// VerifyCheckoutSessionResponse reports the session outcome
type VerifyCheckoutSessionResponse struct {
	Paid         bool             `json:"paid" example:"true"`
	Subscription *SubscriptionDTO `json:"subscription,omitempty"`
}

// PlanDTO describes a purchasable subscription plan
type PlanDTO struct {
	ID           string `json:"id" example:"plan_6_months"`
	Name         string `json:"name" example:"Plan 6 meses"`
	Months       int    `json:"months" example:"6"`
	MonthlyPrice int64  `json:"monthly_price" example:"39900"`
	Currency     string `json:"currency" example:"eur"`
}

// ListPlansResponse enumerates the available plans
type ListPlansResponse struct {
	Plans []PlanDTO `json:"plans"`
}
