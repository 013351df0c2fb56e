package user

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/logctx"
	"github.com/subtracker/subtracker/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// GetOrCreate returns the user row for an authenticated identity, creating
// it with default notification settings on first access.
func (s *Service) GetOrCreate(ctx context.Context, uid, email, displayName string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("id = ?", uid).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Transient(err, "failed to load user")
	}

	u = models.User{
		ID:            uid,
		Email:         email,
		DisplayName:   displayName,
		Currency:      types.CurrencyPLN,
		Notifications: datatypes.NewJSONType(types.DefaultNotificationSettings()),
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, apperr.Transient(err, "failed to create user")
	}
	logctx.FromCtx(ctx, s.log).Infow("user created", "user_id", uid)
	return &u, nil
}

// NotificationSettings loads the user's settings. Load failures fall back to
// the permissive defaults so alert evaluation degrades gracefully instead of
// failing the dashboard.
func (s *Service) NotificationSettings(ctx context.Context, uid string) types.NotificationSettings {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", uid).First(&u).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("settings load failed, using defaults", "user_id", uid, "err", err)
		return types.DefaultNotificationSettings()
	}
	return u.Notifications.Data()
}

// UpdateNotificationSettings replaces the user's settings document.
func (s *Service) UpdateNotificationSettings(ctx context.Context, uid string, settings types.NotificationSettings) error {
	if !types.ValidLeadDays(settings.DaysBefore) {
		return apperr.Validation("days_before must be one of 1, 3 or 7")
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", uid).
		Update("notifications", datatypes.NewJSONType(settings))
	if res.Error != nil {
		return apperr.Transient(res.Error, "failed to update notification settings")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found: %s", uid)
	}
	return nil
}

// ListAll returns every user; the digest job iterates this set.
func (s *Service) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, apperr.Transient(err, "failed to list users")
	}
	return users, nil
}
