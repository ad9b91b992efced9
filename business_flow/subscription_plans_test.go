// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyromarketplace/zyro-backend/utils"
)

func TestPlanByID(t *testing.T) {
	tests := []struct {
		name       string
		planID     string
		wantFound  bool
		wantMonths int
		wantPrice  int64
	}{
		{"3 month plan", utils.SubscriptionPlan3Months, true, 3, 49900},
		{"6 month plan", utils.SubscriptionPlan6Months, true, 6, 39900},
		{"12 month plan", utils.SubscriptionPlan12Months, true, 12, 29900},
		{"unknown plan", "plan_lifetime", false, 0, 0},
		{"empty plan id", "", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, found := PlanByID(tt.planID)

			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.planID, plan.ID)
				assert.Equal(t, tt.wantMonths, plan.Months)
				assert.Equal(t, tt.wantPrice, plan.MonthlyPrice)
				assert.NotEmpty(t, plan.Name)
			}
		})
	}
}

func TestPlanCatalogPricing(t *testing.T) {
	require.Len(t, plans, 3)

	// Longer commitments must carry a lower monthly price
	for i := 1; i < len(plans); i++ {
		assert.Greater(t, plans[i].Months, plans[i-1].Months)
		assert.Less(t, plans[i].MonthlyPrice, plans[i-1].MonthlyPrice)
	}
}
