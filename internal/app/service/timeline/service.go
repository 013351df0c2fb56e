// Package timeline builds forward-looking payment timelines over a user's
// subscriptions. All functions are pure transforms over their input
// collection plus the current date; due dates are re-derived from start
// date and cycle on every call and never trusted from storage.
package timeline

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/billing"
	"github.com/subtracker/subtracker/pkg/types"
)

type Service struct{}

func NewService() *Service { return &Service{} }

// Entry pairs a subscription with its recomputed next due date.
type Entry struct {
	Subscription models.Subscription `json:"subscription"`
	NextDue      time.Time           `json:"next_due"`
	DaysUntil    int                 `json:"days_until"`
}

// NextDue recomputes the next due date for one subscription.
func (s *Service) NextDue(sub models.Subscription, now time.Time) time.Time {
	start := billing.ParseDay(sub.StartDate, now)
	return billing.NextOccurrence(start, sub.Cycle, now)
}

func (s *Service) entries(subs []models.Subscription, now time.Time) []Entry {
	billable := lo.Filter(subs, func(sub models.Subscription, _ int) bool {
		return sub.Status.Billable()
	})
	result := make([]Entry, 0, len(billable))
	for _, sub := range billable {
		due := s.NextDue(sub, now)
		result = append(result, Entry{
			Subscription: sub,
			NextDue:      due,
			DaysUntil:    billing.DaysUntil(due, now),
		})
	}
	return result
}

// MonthGrid maps day-of-month to the subscriptions due that day within the
// given month/year window, for calendar views.
func (s *Service) MonthGrid(subs []models.Subscription, year int, month time.Month, now time.Time) map[int][]Entry {
	grid := make(map[int][]Entry)
	for _, e := range s.entries(subs, now) {
		if e.NextDue.Year() == year && e.NextDue.Month() == month {
			day := e.NextDue.Day()
			grid[day] = append(grid[day], e)
		}
	}
	return grid
}

// UpcomingWeek returns the subscriptions due within [today, today+7 days]
// inclusive, date-ascending.
func (s *Service) UpcomingWeek(subs []models.Subscription, now time.Time) []Entry {
	upcoming := lo.Filter(s.entries(subs, now), func(e Entry, _ int) bool {
		return e.DaysUntil >= 0 && e.DaysUntil <= 7
	})
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NextDue.Before(upcoming[j].NextDue)
	})
	return upcoming
}

// MonthlyTotal sums the monthly-normalized cost of active subscriptions in
// the reference currency. Trial subscriptions are excluded: they have not
// converted to paid yet.
func (s *Service) MonthlyTotal(subs []models.Subscription) float64 {
	return s.total(subs, billing.MonthlyCost)
}

// YearlyTotal is the yearly counterpart of MonthlyTotal.
func (s *Service) YearlyTotal(subs []models.Subscription) float64 {
	return s.total(subs, billing.YearlyCost)
}

func (s *Service) total(subs []models.Subscription, normalize func(float64, types.Cycle) (float64, error)) float64 {
	var sum float64
	for _, sub := range subs {
		if sub.Status != types.SubscriptionStatusActive {
			continue
		}
		cost, err := normalize(sub.Amount, sub.Cycle)
		if err != nil {
			continue
		}
		ref, err := billing.ToReference(cost, sub.Currency)
		if err != nil {
			continue
		}
		sum += ref
	}
	return billing.Round2(sum)
}
