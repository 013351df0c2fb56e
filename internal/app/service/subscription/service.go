package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/billing"
	"github.com/subtracker/subtracker/pkg/logctx"
	"github.com/subtracker/subtracker/pkg/tool"
	"github.com/subtracker/subtracker/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Input carries the user-editable subscription fields. Enum fields arrive as
// raw strings and are validated here, at the edge; calculators further down
// may assume well-formed values.
type Input struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Cycle      string  `json:"cycle"`
	BillingDay int     `json:"billing_day"`
	StartDate  string  `json:"start_date"`
	Category   string  `json:"category"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes"`
	URL        string  `json:"url"`
}

// View is a Subscription plus its derived next due date. NextPayment is
// recomputed on every read and is never persisted.
type View struct {
	models.Subscription
	NextPayment string `json:"next_payment"`
}

func (s *Service) toView(sub models.Subscription, now time.Time) View {
	start := billing.ParseDay(sub.StartDate, now)
	next := billing.NextOccurrence(start, sub.Cycle, now)
	return View{Subscription: sub, NextPayment: next.Format(time.DateOnly)}
}

func (s *Service) validate(in *Input, now time.Time) (*models.Subscription, error) {
	if in.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if in.Amount < 0 {
		return nil, apperr.Validation("amount must be non-negative")
	}
	currency, err := types.ParseCurrency(in.Currency)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	cycle, err := types.ParseCycle(in.Cycle)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	category, err := types.ParseCategory(in.Category)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	status, err := types.ParseSubscriptionStatus(in.Status)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}
	if in.BillingDay < 1 || in.BillingDay > 31 {
		return nil, apperr.Validation("billing day must be between 1 and 31")
	}

	startDate := in.StartDate
	if _, perr := time.Parse(time.DateOnly, startDate); perr != nil {
		startDate = billing.Day(now).Format(time.DateOnly)
	}

	return &models.Subscription{
		Name:       in.Name,
		Amount:     in.Amount,
		Currency:   currency,
		Cycle:      cycle,
		BillingDay: in.BillingDay,
		StartDate:  startDate,
		Category:   category,
		Status:     status,
		Notes:      in.Notes,
		URL:        in.URL,
	}, nil
}

func (s *Service) Create(ctx context.Context, userID string, in *Input) (*View, error) {
	now := time.Now()
	m, err := s.validate(in, now)
	if err != nil {
		return nil, err
	}
	m.ID = tool.GenerateUUIDV7()
	m.UserID = userID

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, apperr.Transient(err, "failed to create subscription")
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription created", "subscription_id", m.ID, "user_id", userID)
	v := s.toView(*m, now)
	return &v, nil
}

func (s *Service) Update(ctx context.Context, userID, subID string, in *Input) (*View, error) {
	now := time.Now()
	m, err := s.validate(in, now)
	if err != nil {
		return nil, err
	}

	existing, err := s.load(ctx, userID, subID)
	if err != nil {
		return nil, err
	}

	m.ID = existing.ID
	m.UserID = existing.UserID
	m.CreatedAt = existing.CreatedAt

	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, apperr.Transient(err, "failed to update subscription")
	}
	v := s.toView(*m, now)
	return &v, nil
}

// Delete hard-deletes the subscription. There is no tombstoning.
func (s *Service) Delete(ctx context.Context, userID, subID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", subID, userID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return apperr.Transient(res.Error, "failed to delete subscription")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("subscription not found: %s", subID)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, userID, subID string) (*View, error) {
	m, err := s.load(ctx, userID, subID)
	if err != nil {
		return nil, err
	}
	v := s.toView(*m, time.Now())
	return &v, nil
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Status   types.SubscriptionStatus
	Category types.Category
}

// List returns the user's subscriptions with derived next due dates.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]View, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var subs []models.Subscription
	if err := q.Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, apperr.Transient(err, "failed to list subscriptions")
	}

	now := time.Now()
	views := make([]View, 0, len(subs))
	for _, sub := range subs {
		views = append(views, s.toView(sub, now))
	}
	return views, nil
}

// ListBillable returns the raw active and trial subscriptions, the set the
// timeline and alert components operate on.
func (s *Service) ListBillable(ctx context.Context, userID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []types.SubscriptionStatus{
			types.SubscriptionStatusActive,
			types.SubscriptionStatusTrial,
		}).
		Find(&subs).Error
	if err != nil {
		return nil, apperr.Transient(err, "failed to list billable subscriptions")
	}
	return subs, nil
}

func (s *Service) load(ctx context.Context, userID, subID string) (*models.Subscription, error) {
	var m models.Subscription
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", subID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("subscription not found: %s", subID)
		}
		return nil, apperr.Transient(err, fmt.Sprintf("failed to load subscription %s", subID))
	}
	return &m, nil
}
