package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/types"
)

func TestBreakdown(t *testing.T) {
	subs := []models.Subscription{
		{ID: "netflix", Amount: 43, Currency: types.CurrencyPLN, Cycle: types.CycleMonthly, Category: types.CategoryEntertainment, Status: types.SubscriptionStatusActive},
		{ID: "spotify", Amount: 20, Currency: types.CurrencyPLN, Cycle: types.CycleMonthly, Category: types.CategoryEntertainment, Status: types.SubscriptionStatusActive},
		{ID: "domain", Amount: 12, Currency: types.CurrencyUSD, Cycle: types.CycleYearly, Category: types.CategoryDomains, Status: types.SubscriptionStatusActive},
		{ID: "gym-trial", Amount: 99, Currency: types.CurrencyPLN, Cycle: types.CycleMonthly, Category: types.CategoryHealth, Status: types.SubscriptionStatusTrial},
	}

	got := Breakdown(subs)
	require.Len(t, got, 2) // trial excluded

	assert.Equal(t, types.CategoryEntertainment, got[0].Category)
	assert.InDelta(t, 63.0, got[0].Monthly, 1e-9)
	assert.Equal(t, 2, got[0].Count)

	// 12 USD yearly -> 1 USD monthly -> 4 PLN
	assert.Equal(t, types.CategoryDomains, got[1].Category)
	assert.InDelta(t, 4.0, got[1].Monthly, 1e-9)
}

func TestBreakdownEmpty(t *testing.T) {
	assert.Empty(t, Breakdown(nil))
}
