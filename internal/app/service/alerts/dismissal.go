package alerts

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/billing"
)

// DayKey is the calendar-day key dismissals are scoped to.
func DayKey(now time.Time) string {
	return billing.Day(now).Format(time.DateOnly)
}

// DismissalStore persists per-day dismissed alert identities. Entries are
// only ever read for the current day key; prior days are garbage.
type DismissalStore interface {
	Dismissed(ctx context.Context, userID, day string) ([]string, error)
	Add(ctx context.Context, userID, day string, ids []string) error
}

// gormDismissalStore keeps one row per (user, day) with a JSON id list, and
// evicts a user's stale day rows on write.
type gormDismissalStore struct {
	db *gorm.DB
}

func NewDismissalStore(db *gorm.DB) DismissalStore {
	return &gormDismissalStore{db: db}
}

func (s *gormDismissalStore) Dismissed(ctx context.Context, userID, day string) ([]string, error) {
	var row models.AlertDismissal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Transient(err, "failed to load dismissals")
	}
	return row.AlertIDs.Data(), nil
}

func (s *gormDismissalStore) Add(ctx context.Context, userID, day string, ids []string) error {
	existing, err := s.Dismissed(ctx, userID, day)
	if err != nil {
		return err
	}
	merged := lo.Uniq(append(existing, ids...))

	row := models.AlertDismissal{
		UserID:   userID,
		Day:      day,
		AlertIDs: datatypes.NewJSONType(merged),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"alert_ids", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return apperr.Transient(err, "failed to save dismissals")
	}

	// day-key eviction: anything before today is unreachable
	s.db.WithContext(ctx).
		Where("user_id = ? AND day < ?", userID, day).
		Delete(&models.AlertDismissal{})
	return nil
}
