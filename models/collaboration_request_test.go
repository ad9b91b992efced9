// Package models contains domain entities and business models for the marketplace
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{"pending to approved", RequestStatusPending, RequestStatusApproved, true},
		{"pending to rejected", RequestStatusPending, RequestStatusRejected, true},
		{"pending to completed", RequestStatusPending, RequestStatusCompleted, false},
		{"pending to cancelled", RequestStatusPending, RequestStatusCancelled, false},
		{"approved to completed", RequestStatusApproved, RequestStatusCompleted, true},
		{"approved to cancelled", RequestStatusApproved, RequestStatusCancelled, true},
		{"approved back to pending", RequestStatusApproved, RequestStatusPending, false},
		{"approved to rejected", RequestStatusApproved, RequestStatusRejected, false},
		{"rejected goes nowhere", RequestStatusRejected, RequestStatusPending, false},
		{"rejected to approved", RequestStatusRejected, RequestStatusApproved, false},
		{"completed goes nowhere", RequestStatusCompleted, RequestStatusCancelled, false},
		{"cancelled goes nowhere", RequestStatusCancelled, RequestStatusApproved, false},
		{"same status is not a transition", RequestStatusPending, RequestStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRequestStatusIsTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.False(t, RequestStatusApproved.IsTerminal())
	assert.True(t, RequestStatusRejected.IsTerminal())
	assert.True(t, RequestStatusCompleted.IsTerminal())
	assert.True(t, RequestStatusCancelled.IsTerminal())

	// invalid statuses are not reported as terminal
	assert.False(t, RequestStatus("bogus").IsTerminal())
}

func TestRequestStatusValid(t *testing.T) {
	valid := []RequestStatus{
		RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
		RequestStatusCompleted, RequestStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}
	assert.False(t, RequestStatus("").Valid())
	assert.False(t, RequestStatus("archived").Valid())
}

func TestContentDeliveryHasAssets(t *testing.T) {
	assert.False(t, ContentDelivery{}.HasAssets())
	assert.True(t, ContentDelivery{InstagramStories: []string{"https://cdn.example.com/s1"}}.HasAssets())
	assert.True(t, ContentDelivery{TiktokVideos: []string{"https://cdn.example.com/v1"}}.HasAssets())
}

func TestCollaborationRequestBeforeCreateDefaults(t *testing.T) {
	r := &CollaborationRequest{CampaignID: 1, InfluencerID: 2}

	err := r.BeforeCreate(nil)
	assert.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", r.UUID.String())
	assert.Equal(t, RequestStatusPending, r.Status)
	assert.False(t, r.RequestDate.IsZero())
	assert.False(t, r.CreatedAt.IsZero())
}

func TestContentDeliveryRoundTrip(t *testing.T) {
	in := ContentDelivery{
		InstagramStories: []string{"https://cdn.example.com/s1", "https://cdn.example.com/s2"},
		TiktokVideos:     []string{"https://cdn.example.com/v1"},
		DeliveredAt:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	value, err := in.Value()
	assert.NoError(t, err)

	var out ContentDelivery
	err = out.Scan(value)
	assert.NoError(t, err)
	assert.Equal(t, in, out)
}
