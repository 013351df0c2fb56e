package types

// NotificationSettings is the per-user notification preference document.
// It lives as a JSON column on the user row and is created lazily with
// DefaultNotificationSettings on first access.
type NotificationSettings struct {
	Enabled          bool `json:"enabled"`
	EmailEnabled     bool `json:"email_enabled"`
	PushEnabled      bool `json:"push_enabled"`
	DaysBefore       int  `json:"days_before"` // lead time before a due date: 1, 3 or 7
	WeeklyDigest     bool `json:"weekly_digest"`
	TrialEndReminder bool `json:"trial_end_reminder"`
	PriceChangeAlert bool `json:"price_change_alert"`
}

// DefaultNotificationSettings returns the permissive defaults used both for
// new users and when settings cannot be loaded: alerts must degrade
// gracefully rather than fail a dashboard render.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:          true,
		EmailEnabled:     true,
		PushEnabled:      false,
		DaysBefore:       3,
		WeeklyDigest:     true,
		TrialEndReminder: true,
		PriceChangeAlert: true,
	}
}

var validLeadDays = []int{1, 3, 7}

// ValidLeadDays reports whether d is one of the supported lead times.
func ValidLeadDays(d int) bool {
	for _, v := range validLeadDays {
		if d == v {
			return true
		}
	}
	return false
}
