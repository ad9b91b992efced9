// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zyromarketplace/zyro-backend/utils"
)

// Stripe client error constants
var (
	ErrStripeRequestFailed     = errors.New("stripe request failed")
	ErrWebhookSignatureFormat  = errors.New("malformed webhook signature header")
	ErrWebhookSignatureStale   = errors.New("webhook timestamp outside tolerance")
	ErrWebhookSignatureNoMatch = errors.New("webhook signature mismatch")
)

// StripeCheckoutSession is the subset of the Checkout Session object we consume
type StripeCheckoutSession struct {
	ID            string  `json:"id"`
	URL           string  `json:"url"`
	Status        string  `json:"status"`         // open, complete, expired
	PaymentStatus string  `json:"payment_status"` // paid, unpaid, no_payment_required
	AmountTotal   int64   `json:"amount_total"`
	Currency      string  `json:"currency"`
	Customer      string  `json:"customer"`
	Subscription  string  `json:"subscription"`
	ClientRef     *string `json:"client_reference_id"`
}

// StripeSubscription is the subset of the Subscription object we consume
type StripeSubscription struct {
	ID               string `json:"id"`
	Status           string `json:"status"` // active, past_due, canceled, ...
	CurrentPeriodEnd int64  `json:"current_period_end"`
	CancelAtEnd      bool   `json:"cancel_at_period_end"`
}

// StripeWebhookEvent is the envelope Stripe posts to the webhook endpoint
type StripeWebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutSessionParams describes a hosted checkout to create
type CheckoutSessionParams struct {
	PlanID          string
	PriceAmount     int64 // cents per month
	Currency        string
	ProductName     string
	IntervalMonths  int
	CustomerEmail   string
	ClientReference string
	SuccessURL      string
	CancelURL       string
}

// StripeClient is a thin form-encoded client for the Stripe REST API
type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*StripeCheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*StripeCheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*StripeSubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*StripeSubscription, error)
	VerifyWebhookSignature(payload []byte, signatureHeader string) error
}

// StripeClientImpl implements StripeClient
type StripeClientImpl struct {
	BaseURL       string
	SecretKey     string
	WebhookSecret string
	HTTPClient    *http.Client
	Tolerance     time.Duration
}

// NewStripeClient creates a new Stripe API client
func NewStripeClient(baseURL, secretKey, webhookSecret string, timeout time.Duration) StripeClient {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StripeClientImpl{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		SecretKey:     secretKey,
		WebhookSecret: webhookSecret,
		HTTPClient:    &http.Client{Timeout: timeout},
		Tolerance:     5 * time.Minute,
	}
}

// CreateCheckoutSession creates a subscription-mode hosted checkout session
func (c *StripeClientImpl) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*StripeCheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("client_reference_id", params.ClientReference)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.PriceAmount, 10))
	form.Set("line_items[0][price_data][recurring][interval]", "month")
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("metadata[plan_id]", params.PlanID)
	form.Set("metadata[plan_months]", strconv.Itoa(params.IntervalMonths))

	var session StripeCheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// GetCheckoutSession retrieves a checkout session by ID
func (c *StripeClientImpl) GetCheckoutSession(ctx context.Context, sessionID string) (*StripeCheckoutSession, error) {
	var session StripeCheckoutSession
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// GetSubscription retrieves a subscription by ID
func (c *StripeClientImpl) GetSubscription(ctx context.Context, subscriptionID string) (*StripeSubscription, error) {
	var subscription StripeSubscription
	if err := c.do(ctx, http.MethodGet, "/v1/subscriptions/"+url.PathEscape(subscriptionID), nil, &subscription); err != nil {
		return nil, err
	}

	return &subscription, nil
}

// CancelSubscription cancels a subscription immediately
func (c *StripeClientImpl) CancelSubscription(ctx context.Context, subscriptionID string) (*StripeSubscription, error) {
	var subscription StripeSubscription
	if err := c.do(ctx, http.MethodDelete, "/v1/subscriptions/"+url.PathEscape(subscriptionID), nil, &subscription); err != nil {
		return nil, err
	}

	return &subscription, nil
}

func (c *StripeClientImpl) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrStripeRequestFailed, method, path, resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// VerifyWebhookSignature checks the Stripe-Signature header against the
// payload: header carries "t=<unix>,v1=<hex hmac>" where the hmac is
// SHA-256 over "<t>.<payload>" keyed with the endpoint signing secret.
func (c *StripeClientImpl) VerifyWebhookSignature(payload []byte, signatureHeader string) error {
	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(signatureHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrWebhookSignatureFormat
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrWebhookSignatureFormat
	}

	if c.Tolerance > 0 {
		age := utils.UTCNow().Sub(time.Unix(timestamp, 0).UTC())
		if age > c.Tolerance || age < -c.Tolerance {
			return ErrWebhookSignatureStale
		}
	}

	mac := hmac.New(sha256.New, []byte(c.WebhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1 {
			return nil
		}
	}

	return ErrWebhookSignatureNoMatch
}
