package types

import "fmt"

// Cycle is the recurrence unit of a subscription's billing.
type Cycle string

const (
	CycleWeekly    Cycle = "weekly"
	CycleMonthly   Cycle = "monthly"
	CycleQuarterly Cycle = "quarterly"
	CycleYearly    Cycle = "yearly"
)

var cycles = []Cycle{CycleWeekly, CycleMonthly, CycleQuarterly, CycleYearly}

func (c Cycle) Valid() bool {
	for _, v := range cycles {
		if c == v {
			return true
		}
	}
	return false
}

func ParseCycle(s string) (Cycle, error) {
	c := Cycle(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown cycle: %q", s)
	}
	return c, nil
}

// Currency is one of the supported billing currencies. PLN is the
// reference currency all aggregates are normalized to.
type Currency string

const (
	CurrencyPLN Currency = "PLN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

var currencies = []Currency{CurrencyPLN, CurrencyUSD, CurrencyEUR}

func (c Currency) Valid() bool {
	for _, v := range currencies {
		if c == v {
			return true
		}
	}
	return false
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown currency: %q", s)
	}
	return c, nil
}

// SubscriptionStatus is the lifecycle state of a subscription.
// Only active and trial subscriptions participate in timelines and alerts.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
)

var subscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusCancelled,
	SubscriptionStatusTrial,
	SubscriptionStatusPaused,
}

func (s SubscriptionStatus) Valid() bool {
	for _, v := range subscriptionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Billable reports whether the subscription should appear in timelines,
// alerts and cost aggregates.
func (s SubscriptionStatus) Billable() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrial
}

func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	st := SubscriptionStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status: %q", s)
	}
	return st, nil
}

// Category groups subscriptions for spending breakdowns.
type Category string

const (
	CategoryEntertainment Category = "entertainment"
	CategoryWork          Category = "work"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryCloud         Category = "cloud"
	CategoryDomains       Category = "domains"
	CategoryOther         Category = "other"
)

var categories = []Category{
	CategoryEntertainment,
	CategoryWork,
	CategoryHealth,
	CategoryEducation,
	CategoryCloud,
	CategoryDomains,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}
