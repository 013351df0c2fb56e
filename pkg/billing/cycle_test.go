package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		cycle types.Cycle
		asOf  time.Time
		want  time.Time
	}{
		{
			name:  "start in the future is returned as-is",
			start: day(2024, time.June, 1),
			cycle: types.CycleMonthly,
			asOf:  day(2024, time.January, 10),
			want:  day(2024, time.June, 1),
		},
		{
			name:  "start equal to asOf is due today",
			start: day(2024, time.March, 15),
			cycle: types.CycleMonthly,
			asOf:  day(2024, time.March, 15),
			want:  day(2024, time.March, 15),
		},
		{
			name:  "weekly advances in 7-day steps",
			start: day(2024, time.January, 1),
			cycle: types.CycleWeekly,
			asOf:  day(2024, time.January, 16),
			want:  day(2024, time.January, 22),
		},
		{
			// Jan 31 + 1 month normalizes through the short February
			// (2024-02-31 -> 2024-03-02), the standard AddDate rollover.
			name:  "monthly start on the 31st rolls over short months",
			start: day(2024, time.January, 31),
			cycle: types.CycleMonthly,
			asOf:  day(2024, time.March, 1),
			want:  day(2024, time.March, 2),
		},
		{
			name:  "quarterly advances by three calendar months",
			start: day(2023, time.November, 15),
			cycle: types.CycleQuarterly,
			asOf:  day(2024, time.March, 1),
			want:  day(2024, time.May, 15),
		},
		{
			name:  "yearly advances by a calendar year",
			start: day(2020, time.February, 29),
			cycle: types.CycleYearly,
			asOf:  day(2021, time.March, 2),
			want:  day(2022, time.March, 1),
		},
		{
			name:  "unrecognized cycle is a no-op",
			start: day(2020, time.January, 1),
			cycle: types.Cycle("fortnightly"),
			asOf:  day(2024, time.January, 1),
			want:  day(2020, time.January, 1),
		},
		{
			name:  "time-of-day on inputs is ignored",
			start: time.Date(2024, time.March, 10, 23, 15, 0, 0, time.Local),
			cycle: types.CycleWeekly,
			asOf:  time.Date(2024, time.March, 10, 1, 0, 0, 0, time.Local),
			want:  day(2024, time.March, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(tt.start, tt.cycle, tt.asOf)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)

			// idempotent under re-evaluation at the same asOf
			again := NextOccurrence(tt.start, tt.cycle, tt.asOf)
			assert.True(t, got.Equal(again))
		})
	}
}

func TestNextOccurrenceNeverBeforeAsOf(t *testing.T) {
	start := day(2019, time.July, 4)
	for _, cycle := range []types.Cycle{types.CycleWeekly, types.CycleMonthly, types.CycleQuarterly, types.CycleYearly} {
		asOf := day(2024, time.February, 29)
		got := NextOccurrence(start, cycle, asOf)
		assert.False(t, got.Before(asOf), "cycle %s produced %s before asOf", cycle, got)
	}
}

func TestNextOccurrenceIterationCeiling(t *testing.T) {
	// ~96 years of weekly steps exceeds the 5000-iteration ceiling; the
	// call must still terminate and return the last computed value.
	start := day(1900, time.January, 1)
	asOf := day(2024, time.January, 1)
	got := NextOccurrence(start, types.CycleWeekly, asOf)
	assert.True(t, got.Before(asOf))
	assert.True(t, got.Equal(start.AddDate(0, 0, 7*5000)))
}

func TestMonthlyCost(t *testing.T) {
	tests := []struct {
		cycle  types.Cycle
		amount float64
		want   float64
	}{
		{types.CycleWeekly, 10, 43.3},
		{types.CycleMonthly, 43, 43},
		{types.CycleQuarterly, 90, 30},
		{types.CycleYearly, 120, 10},
	}
	for _, tt := range tests {
		got, err := MonthlyCost(tt.amount, tt.cycle)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "cycle %s", tt.cycle)
	}

	_, err := MonthlyCost(10, types.Cycle("daily"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestYearlyCost(t *testing.T) {
	tests := []struct {
		cycle  types.Cycle
		amount float64
		want   float64
	}{
		{types.CycleWeekly, 10, 520},
		{types.CycleMonthly, 43, 516},
		{types.CycleQuarterly, 90, 360},
		{types.CycleYearly, 120, 120},
	}
	for _, tt := range tests {
		got, err := YearlyCost(tt.amount, tt.cycle)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "cycle %s", tt.cycle)
	}

	// yearly(monthly) must be exactly amount*12, monthly(yearly) exactly /12
	y, err := YearlyCost(7.77, types.CycleMonthly)
	require.NoError(t, err)
	assert.Equal(t, 7.77*12, y)
	m, err := MonthlyCost(7.77, types.CycleYearly)
	require.NoError(t, err)
	assert.Equal(t, 7.77/12, m)
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, time.March, 10, 14, 30, 0, 0, time.Local)
	assert.Equal(t, 0, DaysUntil(day(2024, time.March, 10), now))
	assert.Equal(t, 1, DaysUntil(day(2024, time.March, 11), now))
	assert.Equal(t, 7, DaysUntil(day(2024, time.March, 17), now))
	assert.Equal(t, -2, DaysUntil(day(2024, time.March, 8), now))
}

func TestParseDay(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.Local)
	assert.True(t, day(2024, time.January, 15).Equal(ParseDay("2024-01-15", now)))
	// malformed dates clamp to today rather than failing
	assert.True(t, day(2024, time.March, 10).Equal(ParseDay("not-a-date", now)))
	assert.True(t, day(2024, time.March, 10).Equal(ParseDay("", now)))
}
