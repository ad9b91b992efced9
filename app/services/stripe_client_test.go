// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(secret string, timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := &StripeClientImpl{
		WebhookSecret: testWebhookSecret,
		Tolerance:     5 * time.Minute,
	}
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now().Unix()

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{
			name:    "valid signature",
			header:  fmt.Sprintf("t=%d,v1=%s", now, signPayload(testWebhookSecret, now, payload)),
			wantErr: nil,
		},
		{
			name: "valid signature among multiple v1 entries",
			header: fmt.Sprintf("t=%d,v1=%s,v1=%s", now,
				signPayload("some_rotated_secret", now, payload),
				signPayload(testWebhookSecret, now, payload)),
			wantErr: nil,
		},
		{
			name:    "signature from wrong secret",
			header:  fmt.Sprintf("t=%d,v1=%s", now, signPayload("wrong_secret", now, payload)),
			wantErr: ErrWebhookSignatureNoMatch,
		},
		{
			name:    "signature over different payload",
			header:  fmt.Sprintf("t=%d,v1=%s", now, signPayload(testWebhookSecret, now, []byte("{}"))),
			wantErr: ErrWebhookSignatureNoMatch,
		},
		{
			name: "stale timestamp",
			header: func() string {
				old := time.Now().Add(-time.Hour).Unix()
				return fmt.Sprintf("t=%d,v1=%s", old, signPayload(testWebhookSecret, old, payload))
			}(),
			wantErr: ErrWebhookSignatureStale,
		},
		{
			name:    "missing timestamp",
			header:  "v1=" + signPayload(testWebhookSecret, now, payload),
			wantErr: ErrWebhookSignatureFormat,
		},
		{
			name:    "missing signature",
			header:  fmt.Sprintf("t=%d", now),
			wantErr: ErrWebhookSignatureFormat,
		},
		{
			name:    "garbage timestamp",
			header:  "t=notanumber,v1=abc",
			wantErr: ErrWebhookSignatureFormat,
		},
		{
			name:    "empty header",
			header:  "",
			wantErr: ErrWebhookSignatureFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.VerifyWebhookSignature(payload, tt.header)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestVerifyWebhookSignatureZeroToleranceSkipsAgeCheck(t *testing.T) {
	client := &StripeClientImpl{WebhookSecret: testWebhookSecret}

	payload := []byte(`{}`)
	old := time.Now().Add(-24 * time.Hour).Unix()
	header := fmt.Sprintf("t=%d,v1=%s", old, signPayload(testWebhookSecret, old, payload))

	assert.NoError(t, client.VerifyWebhookSignature(payload, header))
}

func TestCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "subscription", r.PostForm.Get("mode"))
		assert.Equal(t, "eur", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "39900", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "plan_6m", r.PostForm.Get("metadata[plan_id]"))
		assert.Equal(t, "42", r.PostForm.Get("client_reference_id"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_1","url":"https://checkout.stripe.com/c/cs_test_1","status":"open","payment_status":"unpaid"}`)
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test_123", testWebhookSecret, 5*time.Second)

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		PlanID:          "plan_6m",
		PriceAmount:     39900,
		Currency:        "eur",
		ProductName:     "Plan 6 meses",
		IntervalMonths:  6,
		CustomerEmail:   "empresa@example.com",
		ClientReference: "42",
		SuccessURL:      "https://app.example.com/payment/success",
		CancelURL:       "https://app.example.com/payment/cancel",
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "open", session.Status)
	assert.NotEmpty(t, session.URL)
}

func TestGetCheckoutSessionErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"message":"No such checkout session"}}`)
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test_123", testWebhookSecret, 5*time.Second)

	session, err := client.GetCheckoutSession(context.Background(), "cs_missing")
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrStripeRequestFailed)
	assert.Contains(t, err.Error(), strconv.Itoa(http.StatusNotFound))
}

func TestCancelSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/subscriptions/sub_1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"sub_1","status":"canceled"}`)
	}))
	defer server.Close()

	client := NewStripeClient(server.URL, "sk_test_123", testWebhookSecret, 5*time.Second)

	subscription, err := client.CancelSubscription(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "canceled", subscription.Status)
}
