package utils

import "time"

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// Subscription plan constants
const (
	EURCurrency = "eur"

	// SubscriptionPlan3Months is the entry plan identifier
	SubscriptionPlan3Months = "plan_3_months"
	// SubscriptionPlan6Months is the mid plan identifier
	SubscriptionPlan6Months = "plan_6_months"
	// SubscriptionPlan12Months is the long plan identifier
	SubscriptionPlan12Months = "plan_12_months"
)

// HTTP constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Cache constants
const (
	// ActiveCampaignsCacheKey keys the public campaign listing cache
	ActiveCampaignsCacheKey = "campaigns:active"

	// ActiveCampaignsCacheTTL bounds staleness of the public listing
	ActiveCampaignsCacheTTL = 2 * time.Minute
)

// Notification dispatch constants
const (
	// MaxNotificationAttempts bounds outbox redelivery per row
	MaxNotificationAttempts = 5

	// NotificationDispatchBatch is how many pending rows one dispatcher tick claims
	NotificationDispatchBatch = 100
)
