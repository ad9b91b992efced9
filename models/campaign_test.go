// Package models contains domain entities and business models for the marketplace
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCampaignCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    CampaignStatus
		to      CampaignStatus
		allowed bool
	}{
		{"draft to active", CampaignStatusDraft, CampaignStatusActive, true},
		{"draft to paused", CampaignStatusDraft, CampaignStatusPaused, false},
		{"draft to completed", CampaignStatusDraft, CampaignStatusCompleted, false},
		{"active to paused", CampaignStatusActive, CampaignStatusPaused, true},
		{"active to completed", CampaignStatusActive, CampaignStatusCompleted, true},
		{"active back to draft", CampaignStatusActive, CampaignStatusDraft, false},
		{"paused to active", CampaignStatusPaused, CampaignStatusActive, true},
		{"paused to completed", CampaignStatusPaused, CampaignStatusCompleted, true},
		{"paused back to draft", CampaignStatusPaused, CampaignStatusDraft, false},
		{"completed goes nowhere", CampaignStatusCompleted, CampaignStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campaign{Status: tt.from}
			assert.Equal(t, tt.allowed, c.CanTransitionTo(tt.to))
		})
	}
}

func TestCampaignIsOpenForRequests(t *testing.T) {
	assert.True(t, (&Campaign{Status: CampaignStatusActive}).IsOpenForRequests())
	assert.False(t, (&Campaign{Status: CampaignStatusDraft}).IsOpenForRequests())
	assert.False(t, (&Campaign{Status: CampaignStatusPaused}).IsOpenForRequests())
	assert.False(t, (&Campaign{Status: CampaignStatusCompleted}).IsOpenForRequests())
}

func TestCampaignIsEditable(t *testing.T) {
	assert.True(t, (&Campaign{Status: CampaignStatusDraft}).IsEditable())
	assert.True(t, (&Campaign{Status: CampaignStatusPaused}).IsEditable())
	assert.False(t, (&Campaign{Status: CampaignStatusActive}).IsEditable())
	assert.False(t, (&Campaign{Status: CampaignStatusCompleted}).IsEditable())
}

func TestCampaignBeforeCreateDefaults(t *testing.T) {
	c := &Campaign{CompanyID: 7, Title: "Cena para dos"}

	err := c.BeforeCreate(nil)
	assert.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", c.UUID.String())
	assert.Equal(t, CampaignStatusDraft, c.Status)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCampaignRequirementsRoundTrip(t *testing.T) {
	min := 5000
	in := CampaignRequirements{MinInstagramFollowers: &min}

	value, err := in.Value()
	assert.NoError(t, err)

	var out CampaignRequirements
	err = out.Scan(value)
	assert.NoError(t, err)
	assert.NotNil(t, out.MinInstagramFollowers)
	assert.Equal(t, 5000, *out.MinInstagramFollowers)
	assert.Nil(t, out.MinTiktokFollowers)
}
