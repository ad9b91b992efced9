// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/utils"
)

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name               string
		instagramFollowers *int
		tiktokFollowers    *int
		requirements       models.CampaignRequirements
		wantEligible       bool
		wantMissing        map[string]int
		wantMessage        string
	}{
		{
			name:               "meets all requirements",
			instagramFollowers: utils.ToPtr(10000),
			tiktokFollowers:    utils.ToPtr(5000),
			requirements: models.CampaignRequirements{
				MinInstagramFollowers: utils.ToPtr(5000),
				MinTiktokFollowers:    utils.ToPtr(2000),
			},
			wantEligible: true,
			wantMissing:  map[string]int{},
			wantMessage:  EligibleMessage,
		},
		{
			name:               "exactly at the minimum",
			instagramFollowers: utils.ToPtr(5000),
			tiktokFollowers:    nil,
			requirements: models.CampaignRequirements{
				MinInstagramFollowers: utils.ToPtr(5000),
			},
			wantEligible: true,
			wantMissing:  map[string]int{},
			wantMessage:  EligibleMessage,
		},
		{
			name:               "short on instagram only",
			instagramFollowers: utils.ToPtr(3000),
			tiktokFollowers:    utils.ToPtr(5000),
			requirements: models.CampaignRequirements{
				MinInstagramFollowers: utils.ToPtr(5000),
				MinTiktokFollowers:    utils.ToPtr(2000),
			},
			wantEligible: false,
			wantMissing:  map[string]int{"instagram": 2000},
			wantMessage:  "Necesitas 2000 seguidores más en Instagram",
		},
		{
			name:               "short on both platforms",
			instagramFollowers: utils.ToPtr(1000),
			tiktokFollowers:    utils.ToPtr(500),
			requirements: models.CampaignRequirements{
				MinInstagramFollowers: utils.ToPtr(5000),
				MinTiktokFollowers:    utils.ToPtr(2000),
			},
			wantEligible: false,
			wantMissing:  map[string]int{"instagram": 4000, "tiktok": 1500},
			wantMessage:  "Necesitas 4000 seguidores más en Instagram y 1500 seguidores más en TikTok",
		},
		{
			name:               "no requirements at all",
			instagramFollowers: nil,
			tiktokFollowers:    nil,
			requirements:       models.CampaignRequirements{},
			wantEligible:       true,
			wantMissing:        map[string]int{},
			wantMessage:        EligibleMessage,
		},
		{
			name:               "missing follower counts treated as zero",
			instagramFollowers: nil,
			tiktokFollowers:    nil,
			requirements: models.CampaignRequirements{
				MinInstagramFollowers: utils.ToPtr(1000),
			},
			wantEligible: false,
			wantMissing:  map[string]int{"instagram": 1000},
			wantMessage:  "Necesitas 1000 seguidores más en Instagram",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			influencer := &models.User{
				InstagramFollowers: tt.instagramFollowers,
				TiktokFollowers:    tt.tiktokFollowers,
			}

			result := CheckEligibility(influencer, tt.requirements)

			assert.Equal(t, tt.wantEligible, result.IsEligible)
			assert.Equal(t, tt.wantMessage, result.Message)

			missing := map[string]int{}
			if result.MissingRequirements.Instagram != nil {
				missing["instagram"] = *result.MissingRequirements.Instagram
			}
			if result.MissingRequirements.Tiktok != nil {
				missing["tiktok"] = *result.MissingRequirements.Tiktok
			}
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestCheckEligibilityNilInfluencer(t *testing.T) {
	result := CheckEligibility(nil, models.CampaignRequirements{
		MinInstagramFollowers: utils.ToPtr(500),
	})

	assert.False(t, result.IsEligible)
	assert.NotNil(t, result.MissingRequirements.Instagram)
	assert.Equal(t, 500, *result.MissingRequirements.Instagram)
}

func TestCheckEligibilityMessageNamesOnlyFailingPlatform(t *testing.T) {
	influencer := &models.User{
		InstagramFollowers: utils.ToPtr(3000),
		TiktokFollowers:    utils.ToPtr(5000),
	}
	result := CheckEligibility(influencer, models.CampaignRequirements{
		MinInstagramFollowers: utils.ToPtr(5000),
		MinTiktokFollowers:    utils.ToPtr(2000),
	})

	assert.Contains(t, result.Message, "Instagram")
	assert.NotContains(t, result.Message, "TikTok")
}

func TestRequirementsText(t *testing.T) {
	tests := []struct {
		name         string
		requirements models.CampaignRequirements
		want         string
	}{
		{
			name:         "no minimums",
			requirements: models.CampaignRequirements{},
			want:         NoRequirementsMessage,
		},
		{
			name: "instagram only",
			requirements: models.CampaignRequirements{
				MinInstagramFollowers: utils.ToPtr(5000),
			},
			want: "Mínimo 5000 seguidores en Instagram",
		},
		{
			name: "tiktok only",
			requirements: models.CampaignRequirements{
				MinTiktokFollowers: utils.ToPtr(2000),
			},
			want: "Mínimo 2000 seguidores en TikTok",
		},
		{
			name: "both platforms",
			requirements: models.CampaignRequirements{
				MinInstagramFollowers: utils.ToPtr(5000),
				MinTiktokFollowers:    utils.ToPtr(2000),
			},
			want: "Mínimo 5000 seguidores en Instagram y 2000 seguidores en TikTok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequirementsText(tt.requirements))
		})
	}
}
