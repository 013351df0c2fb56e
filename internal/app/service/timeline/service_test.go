package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/types"
)

func sub(id, start string, cycle types.Cycle, status types.SubscriptionStatus) models.Subscription {
	return models.Subscription{
		ID:        id,
		Name:      id,
		Amount:    10,
		Currency:  types.CurrencyPLN,
		Cycle:     cycle,
		StartDate: start,
		Status:    status,
	}
}

func TestNextDueIgnoresStoredState(t *testing.T) {
	s := NewService()
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.Local)

	// monthly from Jan 31: rolls through short February to Mar 2
	got := s.NextDue(sub("a", "2024-01-31", types.CycleMonthly, types.SubscriptionStatusActive), now)
	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.Local), got)

	// malformed start date clamps to today
	got = s.NextDue(sub("b", "garbage", types.CycleMonthly, types.SubscriptionStatusActive), now)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local), got)
}

func TestMonthGrid(t *testing.T) {
	s := NewService()
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.Local)

	subs := []models.Subscription{
		sub("mar5", "2024-02-05", types.CycleMonthly, types.SubscriptionStatusActive),
		sub("mar5too", "2024-01-05", types.CycleMonthly, types.SubscriptionStatusActive),
		sub("mar20", "2024-03-20", types.CycleMonthly, types.SubscriptionStatusTrial),
		sub("apr", "2024-04-10", types.CycleMonthly, types.SubscriptionStatusActive),
		sub("cancelled", "2024-02-05", types.CycleMonthly, types.SubscriptionStatusCancelled),
	}

	grid := s.MonthGrid(subs, 2024, time.March, now)
	require.Len(t, grid, 2)
	assert.Len(t, grid[5], 2)
	assert.Len(t, grid[20], 1)
	assert.Equal(t, "mar20", grid[20][0].Subscription.ID)
}

func TestUpcomingWeek(t *testing.T) {
	s := NewService()
	now := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.Local)

	subs := []models.Subscription{
		sub("today", "2024-03-10", types.CycleMonthly, types.SubscriptionStatusActive),
		sub("in7", "2024-03-17", types.CycleMonthly, types.SubscriptionStatusActive),
		sub("in8", "2024-03-18", types.CycleMonthly, types.SubscriptionStatusActive),
		sub("in3", "2024-03-13", types.CycleWeekly, types.SubscriptionStatusTrial),
		sub("paused", "2024-03-11", types.CycleMonthly, types.SubscriptionStatusPaused),
	}

	got := s.UpcomingWeek(subs, now)
	require.Len(t, got, 3)
	// date-ascending, both window bounds inclusive, paused excluded
	assert.Equal(t, "today", got[0].Subscription.ID)
	assert.Equal(t, "in3", got[1].Subscription.ID)
	assert.Equal(t, "in7", got[2].Subscription.ID)
	assert.Equal(t, 0, got[0].DaysUntil)
	assert.Equal(t, 7, got[2].DaysUntil)
}

func TestTotalsNormalizeToReferenceCurrency(t *testing.T) {
	s := NewService()

	subs := []models.Subscription{
		{ID: "netflix", Amount: 43, Currency: types.CurrencyPLN, Cycle: types.CycleMonthly, Status: types.SubscriptionStatusActive},
		{ID: "hosting", Amount: 120, Currency: types.CurrencyUSD, Cycle: types.CycleYearly, Status: types.SubscriptionStatusActive},
		{ID: "trial", Amount: 99, Currency: types.CurrencyPLN, Cycle: types.CycleMonthly, Status: types.SubscriptionStatusTrial},
	}

	// 43 + (120/12)*4.0 = 83; trial excluded from spend totals
	assert.InDelta(t, 83.0, s.MonthlyTotal(subs), 0.001)
	// 43*12 + 120*4.0 = 996
	assert.InDelta(t, 996.0, s.YearlyTotal(subs), 0.001)
}
