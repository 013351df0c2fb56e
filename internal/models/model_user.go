package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/subtracker/subtracker/pkg/types"
)

// User mirrors the identity issued by the authentication provider plus the
// per-user notification settings document. Settings are created lazily with
// defaults on first access.
type User struct {
	ID          string         `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Email       string         `gorm:"column:email;type:varchar(256);not null;index" json:"email"`
	DisplayName string         `gorm:"column:display_name;type:varchar(256)" json:"display_name"`
	Currency    types.Currency `gorm:"column:currency;type:varchar(8);not null;default:'PLN'" json:"currency"`
	// Notifications is the per-user settings singleton stored as a JSON doc.
	Notifications datatypes.JSONType[types.NotificationSettings] `gorm:"column:notifications;type:jsonb" json:"notifications"`
	CreatedAt     time.Time                                      `json:"created_at"`
	UpdatedAt     time.Time                                      `json:"updated_at"`
}

func (User) TableName() string { return "app_user" }
