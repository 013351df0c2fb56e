package models

import (
	"time"

	"gorm.io/datatypes"
)

// AlertDismissal records the alert identities a user dismissed on one
// calendar day. Rows are keyed by (user_id, day); a new day means a fresh
// empty record, so nothing carries across the day boundary. Stale rows are
// evicted opportunistically on write.
type AlertDismissal struct {
	UserID string `gorm:"column:user_id;type:varchar(64);primaryKey" json:"user_id"`
	// Day is the calendar-day key (YYYY-MM-DD) the dismissals apply to.
	Day       string                       `gorm:"column:day;type:date;primaryKey" json:"day"`
	AlertIDs  datatypes.JSONType[[]string] `gorm:"column:alert_ids;type:jsonb" json:"alert_ids"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

func (AlertDismissal) TableName() string { return "alert_dismissal" }
