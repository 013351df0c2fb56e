package alerts

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/internal/app/service/user"
	"github.com/subtracker/subtracker/pkg/logctx"
	"github.com/subtracker/subtracker/pkg/types"
)

type Service struct {
	subs  *subscription.Service
	users *user.Service
	store DismissalStore
	log   *zap.SugaredLogger
}

func NewService(subs *subscription.Service, users *user.Service, store DismissalStore, log *zap.SugaredLogger) *Service {
	return &Service{subs: subs, users: users, store: store, log: log}
}

// Active returns the user's current alerts: settings-gated, evaluated over
// the billable subscriptions and filtered by today's dismissals. Settings or
// dismissal load failures degrade (defaults / no suppression) instead of
// failing the evaluation.
func (s *Service) Active(ctx context.Context, userID string) ([]Alert, error) {
	settings := s.users.NotificationSettings(ctx, userID)
	if !settings.Enabled {
		return nil, nil
	}

	subs, err := s.subs.ListBillable(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dismissed, err := s.store.Dismissed(ctx, userID, DayKey(now))
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("dismissal load failed, showing all alerts", "user_id", userID, "err", err)
		dismissed = nil
	}

	return Evaluate(subs, settings, dismissed, now), nil
}

// Dismiss suppresses the given alert identities for the rest of the day.
func (s *Service) Dismiss(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.store.Add(ctx, userID, DayKey(time.Now()), ids)
}

// DismissAll suppresses every currently visible alert for the rest of the
// day.
func (s *Service) DismissAll(ctx context.Context, userID string) error {
	active, err := s.Active(ctx, userID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(active))
	for _, a := range active {
		ids = append(ids, a.ID)
	}
	return s.Dismiss(ctx, userID, ids)
}

// EvaluateFor runs a settings-supplied evaluation pass; the digest job uses
// this server-side analogue without touching the dismissal record.
func (s *Service) EvaluateFor(ctx context.Context, userID string, settings types.NotificationSettings) ([]Alert, error) {
	subs, err := s.subs.ListBillable(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Evaluate(subs, settings, nil, time.Now()), nil
}
