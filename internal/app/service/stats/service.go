// Package stats computes per-user spending statistics for the dashboard:
// normalized totals and category breakdowns over active subscriptions.
package stats

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/internal/app/service/timeline"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/billing"
	"github.com/subtracker/subtracker/pkg/types"
)

type Service struct {
	subs     *subscription.Service
	timeline *timeline.Service
}

func NewService(subs *subscription.Service, timeline *timeline.Service) *Service {
	return &Service{subs: subs, timeline: timeline}
}

// CategorySpend is one category's monthly-normalized spend in the reference
// currency.
type CategorySpend struct {
	Category types.Category `json:"category"`
	Monthly  float64        `json:"monthly"`
	Count    int            `json:"count"`
}

// Overview is the dashboard statistics payload. All amounts are in the
// reference currency.
type Overview struct {
	MonthlyTotal float64                          `json:"monthly_total"`
	YearlyTotal  float64                          `json:"yearly_total"`
	ActiveCount  int                              `json:"active_count"`
	TrialCount   int                              `json:"trial_count"`
	ByCategory   []CategorySpend                  `json:"by_category"`
	ByStatus     map[types.SubscriptionStatus]int `json:"by_status"`
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	views, err := s.subs.List(ctx, userID, subscription.ListFilter{})
	if err != nil {
		return nil, err
	}
	subs := lo.Map(views, func(v subscription.View, _ int) models.Subscription {
		return v.Subscription
	})

	byStatus := lo.CountValuesBy(subs, func(sub models.Subscription) types.SubscriptionStatus {
		return sub.Status
	})

	return &Overview{
		MonthlyTotal: s.timeline.MonthlyTotal(subs),
		YearlyTotal:  s.timeline.YearlyTotal(subs),
		ActiveCount:  byStatus[types.SubscriptionStatusActive],
		TrialCount:   byStatus[types.SubscriptionStatusTrial],
		ByCategory:   Breakdown(subs),
		ByStatus:     byStatus,
	}, nil
}

// Breakdown groups active subscriptions by category and sums their
// monthly-normalized reference-currency cost, largest first.
func Breakdown(subs []models.Subscription) []CategorySpend {
	active := lo.Filter(subs, func(sub models.Subscription, _ int) bool {
		return sub.Status == types.SubscriptionStatusActive
	})
	grouped := lo.GroupBy(active, func(sub models.Subscription) types.Category {
		return sub.Category
	})

	result := make([]CategorySpend, 0, len(grouped))
	for category, members := range grouped {
		var monthly float64
		for _, sub := range members {
			cost, err := billing.MonthlyCost(sub.Amount, sub.Cycle)
			if err != nil {
				continue
			}
			ref, err := billing.ToReference(cost, sub.Currency)
			if err != nil {
				continue
			}
			monthly += ref
		}
		result = append(result, CategorySpend{
			Category: category,
			Monthly:  billing.Round2(monthly),
			Count:    len(members),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Monthly != result[j].Monthly {
			return result[i].Monthly > result[j].Monthly
		}
		return result[i].Category < result[j].Category
	})
	return result
}
