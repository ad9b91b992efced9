// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"fmt"
	"strings"

	"github.com/zyromarketplace/zyro-backend/models"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// EligibleMessage is returned when an influencer satisfies every minimum of a campaign.
const EligibleMessage = "¡Cumples con todos los requisitos de esta campaña!"

// NoRequirementsMessage is returned by RequirementsText when a campaign sets no minimums.
const NoRequirementsMessage = "Sin requisitos específicos de seguidores"

// MissingRequirements lists per-platform follower deficits. Only platforms
// with a positive deficit are present.
type MissingRequirements struct {
	Instagram *int `json:"instagram,omitempty"`
	Tiktok    *int `json:"tiktok,omitempty"`
}

// EligibilityResult is the verdict of matching an influencer against a
// campaign's follower minimums. It is computed on demand and never persisted.
type EligibilityResult struct {
	IsEligible          bool                `json:"is_eligible"`
	MissingRequirements MissingRequirements `json:"missing_requirements"`
	Message             string              `json:"message"`
}

// CheckEligibility compares the influencer's follower counts against the
// campaign requirements. A platform without a defined minimum never
// disqualifies; an undefined follower count counts as zero.
func CheckEligibility(influencer *models.User, requirements models.CampaignRequirements) EligibilityResult {
	var instagramFollowers, tiktokFollowers int
	if influencer != nil {
		instagramFollowers = utils.IntOrZero(influencer.InstagramFollowers)
		tiktokFollowers = utils.IntOrZero(influencer.TiktokFollowers)
	}

	result := EligibilityResult{IsEligible: true}

	if requirements.MinInstagramFollowers != nil {
		if deficit := *requirements.MinInstagramFollowers - instagramFollowers; deficit > 0 {
			result.IsEligible = false
			result.MissingRequirements.Instagram = &deficit
		}
	}
	if requirements.MinTiktokFollowers != nil {
		if deficit := *requirements.MinTiktokFollowers - tiktokFollowers; deficit > 0 {
			result.IsEligible = false
			result.MissingRequirements.Tiktok = &deficit
		}
	}

	if result.IsEligible {
		result.Message = EligibleMessage
		return result
	}

	var clauses []string
	if result.MissingRequirements.Instagram != nil {
		clauses = append(clauses, fmt.Sprintf("%d seguidores más en Instagram", *result.MissingRequirements.Instagram))
	}
	if result.MissingRequirements.Tiktok != nil {
		clauses = append(clauses, fmt.Sprintf("%d seguidores más en TikTok", *result.MissingRequirements.Tiktok))
	}
	result.Message = fmt.Sprintf("Necesitas %s", strings.Join(clauses, " y "))

	return result
}

// RequirementsText renders a campaign's follower minimums for display.
func RequirementsText(requirements models.CampaignRequirements) string {
	var clauses []string
	if requirements.MinInstagramFollowers != nil {
		clauses = append(clauses, fmt.Sprintf("%d seguidores en Instagram", *requirements.MinInstagramFollowers))
	}
	if requirements.MinTiktokFollowers != nil {
		clauses = append(clauses, fmt.Sprintf("%d seguidores en TikTok", *requirements.MinTiktokFollowers))
	}

	if len(clauses) == 0 {
		return NoRequirementsMessage
	}

	return fmt.Sprintf("Mínimo %s", strings.Join(clauses, " y "))
}
