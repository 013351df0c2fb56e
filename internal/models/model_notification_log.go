package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationLogStatus string

const (
	NotificationLogStatusSent       NotificationLogStatus = "sent"
	NotificationLogStatusSendFailed NotificationLogStatus = "send_failed"
)

type NotificationLogKind string

const (
	NotificationLogKindDailyReminder NotificationLogKind = "daily_reminder"
	NotificationLogKindWeeklyDigest  NotificationLogKind = "weekly_digest"
)

// NotificationLog is the audit trail of digest-job email dispatches.
type NotificationLog struct {
	ID        string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID    string                `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	Kind      NotificationLogKind   `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	Recipient string                `gorm:"column:recipient;type:varchar(256);not null" json:"recipient"`
	Subject   string                `gorm:"column:subject;type:varchar(512)" json:"subject"`
	// Data holds the payload summary (subscription names, totals).
	Data      datatypes.JSON        `gorm:"column:data;type:jsonb" json:"data"`
	Status    NotificationLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func (NotificationLog) TableName() string { return "notification_log" }
