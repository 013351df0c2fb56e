// Package billing holds the pure billing-cycle calculator and the fixed-rate
// currency normalizer. Everything here is deterministic over its inputs; all
// date comparisons are local calendar-day comparisons with no timezone
// offset applied.
package billing

import (
	"time"

	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/types"
)

// maxIterations bounds the advance loop in NextOccurrence so pathological
// inputs (start dates far in the future, corrupt cycle values) terminate.
const maxIterations = 5000

// weeksPerMonth is the deliberately simple 52/12 approximation used for
// monthly normalization. It is not exact calendar pro-ration.
const weeksPerMonth = 4.33

// weeksPerYear is the matching approximation for yearly normalization.
const weeksPerYear = 52

// Day truncates t to local day granularity.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// step advances from by one billing cycle using calendar-aware increments,
// so a Jan 31 monthly start rolls through Feb via the standard library's
// AddDate normalization rather than fixed 30-day blocks. An unrecognized
// cycle returns from unchanged.
func step(from time.Time, cycle types.Cycle) time.Time {
	switch cycle {
	case types.CycleWeekly:
		return from.AddDate(0, 0, 7)
	case types.CycleMonthly:
		return from.AddDate(0, 1, 0)
	case types.CycleQuarterly:
		return from.AddDate(0, 3, 0)
	case types.CycleYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// NextOccurrence returns the first billing occurrence of a subscription that
// is not before asOf, starting from start and advancing one cycle at a time.
// Both dates are truncated to day granularity. If the iteration ceiling is
// hit the last computed value is returned; an unrecognized cycle yields the
// unmodified start date.
func NextOccurrence(start time.Time, cycle types.Cycle, asOf time.Time) time.Time {
	next := Day(start)
	today := Day(asOf)

	for i := 0; next.Before(today) && i < maxIterations; i++ {
		advanced := step(next, cycle)
		if advanced.Equal(next) {
			// zero-length step, nothing to iterate towards
			return next
		}
		next = advanced
	}
	return next
}

// MonthlyCost converts an amount billed on the given cycle into an
// equivalent monthly figure using fixed multipliers.
func MonthlyCost(amount float64, cycle types.Cycle) (float64, error) {
	switch cycle {
	case types.CycleWeekly:
		return amount * weeksPerMonth, nil
	case types.CycleMonthly:
		return amount, nil
	case types.CycleQuarterly:
		return amount / 3, nil
	case types.CycleYearly:
		return amount / 12, nil
	}
	return 0, apperr.Validation("unknown cycle: %q", cycle)
}

// YearlyCost converts an amount billed on the given cycle into an equivalent
// yearly figure.
func YearlyCost(amount float64, cycle types.Cycle) (float64, error) {
	switch cycle {
	case types.CycleWeekly:
		return amount * weeksPerYear, nil
	case types.CycleMonthly:
		return amount * 12, nil
	case types.CycleQuarterly:
		return amount * 4, nil
	case types.CycleYearly:
		return amount, nil
	}
	return 0, apperr.Validation("unknown cycle: %q", cycle)
}

// DaysUntil returns the whole-day distance from now to date, both truncated
// to midnight, rounding partial days up. Today is 0, tomorrow 1, past dates
// are negative.
func DaysUntil(date, now time.Time) int {
	diff := Day(date).Sub(Day(now))
	days := diff / (24 * time.Hour)
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return int(days)
}

// ParseDay parses an ISO calendar date (YYYY-MM-DD). A malformed date is
// clamped to now's day instead of failing: the calculator never crashes on
// bad stored dates.
func ParseDay(s string, now time.Time) time.Time {
	t, err := time.ParseInLocation(time.DateOnly, s, now.Location())
	if err != nil {
		return Day(now)
	}
	return t
}
