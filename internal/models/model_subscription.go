package models

import (
	"time"

	"github.com/subtracker/subtracker/pkg/types"
)

// Subscription is a user's recurring charge.
//
// The next payment date is deliberately NOT a column: it is always
// recomputed from StartDate and Cycle at read time, so editing either field
// never leaves a stale cached date behind. Any next-due value exposed to
// clients is a derived DTO field.
type Subscription struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	Name   string `gorm:"column:name;type:varchar(256);not null" json:"name"`
	// Amount is the charge in the subscription's own currency.
	Amount   float64        `gorm:"column:amount;not null" json:"amount"`
	Currency types.Currency `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Cycle    types.Cycle    `gorm:"column:cycle;type:varchar(16);not null" json:"cycle"`
	// BillingDay (1-31) is advisory only; scheduling derives from StartDate.
	BillingDay int `gorm:"column:billing_day" json:"billing_day"`
	// StartDate is a calendar date (YYYY-MM-DD), no time component.
	StartDate string                   `gorm:"column:start_date;type:date" json:"start_date"`
	Category  types.Category           `gorm:"column:category;type:varchar(32);not null" json:"category"`
	Status    types.SubscriptionStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	Notes     string                   `gorm:"column:notes;type:text" json:"notes,omitempty"`
	URL       string                   `gorm:"column:url;type:varchar(512)" json:"url,omitempty"`
	// CreatedAt is managed by GORM and records the creation time.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is managed by GORM and records the update time.
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string { return "subscription" }
