// Package alerts evaluates upcoming-payment and trial-ending alerts.
// Alerts are ephemeral: generated fresh on every evaluation pass and
// suppressed only through the per-day dismissal record.
package alerts

import (
	"fmt"
	"time"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/billing"
	"github.com/subtracker/subtracker/pkg/types"
)

type Kind string

const (
	KindPayment Kind = "payment"
	KindTrial   Kind = "trial"
)

// trialWindowDays is the fixed trial-ending horizon, independent of the
// user-configurable payment lead time.
const trialWindowDays = 3

// Alert is a derived notice of an upcoming due date or trial end.
type Alert struct {
	// ID is deterministic over (kind, subscription, daysUntil): as the due
	// date approaches, each day produces a distinct identity, so dismissal
	// is per-day rather than per-subscription-for-life.
	ID           string              `json:"id"`
	Kind         Kind                `json:"kind"`
	Subscription models.Subscription `json:"subscription"`
	DaysUntil    int                 `json:"days_until"`
}

// ID composes the deterministic alert identity.
func ID(kind Kind, subID string, daysUntil int) string {
	return fmt.Sprintf("%s_%s_%d", kind, subID, daysUntil)
}

// Evaluate runs one alert pass over the given subscriptions. dismissed
// holds the identities already dismissed today; settings disabled means no
// alerts at all.
func Evaluate(subs []models.Subscription, settings types.NotificationSettings, dismissed []string, now time.Time) []Alert {
	if !settings.Enabled {
		return nil
	}

	dismissedSet := make(map[string]struct{}, len(dismissed))
	for _, id := range dismissed {
		dismissedSet[id] = struct{}{}
	}

	var result []Alert
	emit := func(a Alert) {
		if _, ok := dismissedSet[a.ID]; !ok {
			result = append(result, a)
		}
	}

	for _, sub := range subs {
		if !sub.Status.Billable() {
			continue
		}
		start := billing.ParseDay(sub.StartDate, now)
		due := billing.NextOccurrence(start, sub.Cycle, now)
		daysUntil := billing.DaysUntil(due, now)

		if daysUntil >= 0 && daysUntil <= settings.DaysBefore {
			emit(Alert{
				ID:           ID(KindPayment, sub.ID, daysUntil),
				Kind:         KindPayment,
				Subscription: sub,
				DaysUntil:    daysUntil,
			})
		}

		if sub.Status == types.SubscriptionStatusTrial && settings.TrialEndReminder &&
			daysUntil >= 0 && daysUntil <= trialWindowDays {
			emit(Alert{
				ID:           ID(KindTrial, sub.ID, daysUntil),
				Kind:         KindTrial,
				Subscription: sub,
				DaysUntil:    daysUntil,
			})
		}
	}
	return result
}
