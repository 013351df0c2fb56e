// Package digest runs the scheduled reminder and weekly digest batches: a
// server-side analogue of the dashboard's timeline and alert evaluation,
// dispatched by email. The only delivery contract is at-least-once attempt
// per enabled user per tick; one user's failure never aborts the rest.
package digest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/subtracker/subtracker/internal/app/service/timeline"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/platform/mail"
)

// userSource and subscriptionSource are the narrow read surfaces the job
// needs; the concrete services satisfy them.
type userSource interface {
	ListAll(ctx context.Context) ([]models.User, error)
}

type subscriptionSource interface {
	ListBillable(ctx context.Context, userID string) ([]models.Subscription, error)
}

type dispatchLog interface {
	Record(ctx context.Context, entry *models.NotificationLog)
}

// perUserTimeout is the caller-imposed bound on one user's batch work; a
// timeout counts as that user's failure and iteration continues.
const perUserTimeout = 30 * time.Second

type Job struct {
	users    userSource
	subs     subscriptionSource
	timeline *timeline.Service
	mailer   mail.Mailer
	dlog     dispatchLog
	log      *zap.SugaredLogger
}

func NewJob(users userSource, subs subscriptionSource, tl *timeline.Service, mailer mail.Mailer, dlog dispatchLog, log *zap.SugaredLogger) *Job {
	return &Job{users: users, subs: subs, timeline: tl, mailer: mailer, dlog: dlog, log: log}
}

// RunDaily sends a payment reminder to every user with email notifications
// enabled whose subscriptions are due in exactly their lead time or
// tomorrow.
func (j *Job) RunDaily(ctx context.Context, now time.Time) {
	users, err := j.users.ListAll(ctx)
	if err != nil {
		j.log.Errorf("daily reminder run aborted, cannot list users: %v", err)
		return
	}

	j.log.Infow("daily reminder run started", "users", len(users))
	sent := 0
	for _, u := range users {
		settings := u.Notifications.Data()
		if !settings.Enabled || !settings.EmailEnabled {
			continue
		}
		if j.runForUser(ctx, u, models.NotificationLogKindDailyReminder, func(uctx context.Context) (bool, error) {
			subs, err := j.subs.ListBillable(uctx, u.ID)
			if err != nil {
				return false, err
			}
			due := selectDueForReminder(j.timeline.UpcomingWeek(subs, now), settings.DaysBefore)
			if len(due) == 0 {
				return false, nil
			}
			msg := mail.Message{
				To:      u.Email,
				Subject: reminderSubject(len(due)),
				HTML:    renderReminder(u.DisplayName, due, settings.DaysBefore),
			}
			return true, j.mailer.Send(uctx, msg)
		}) {
			sent++
		}
	}
	j.log.Infow("daily reminder run finished", "sent", sent)
}

// RunWeekly sends the weekly digest of payments due in the coming 7 days to
// every user with the weekly digest flag enabled.
func (j *Job) RunWeekly(ctx context.Context, now time.Time) {
	users, err := j.users.ListAll(ctx)
	if err != nil {
		j.log.Errorf("weekly digest run aborted, cannot list users: %v", err)
		return
	}

	j.log.Infow("weekly digest run started", "users", len(users))
	sent := 0
	for _, u := range users {
		settings := u.Notifications.Data()
		if !settings.Enabled || !settings.WeeklyDigest {
			continue
		}
		if j.runForUser(ctx, u, models.NotificationLogKindWeeklyDigest, func(uctx context.Context) (bool, error) {
			subs, err := j.subs.ListBillable(uctx, u.ID)
			if err != nil {
				return false, err
			}
			week := j.timeline.UpcomingWeek(subs, now)
			if len(week) == 0 {
				return false, nil
			}
			msg := mail.Message{
				To:      u.Email,
				Subject: digestSubject(len(week)),
				HTML:    renderDigest(u.DisplayName, week),
			}
			return true, j.mailer.Send(uctx, msg)
		}) {
			sent++
		}
	}
	j.log.Infow("weekly digest run finished", "sent", sent)
}

// runForUser isolates one user's batch: its own timeout, panic containment
// and failure logging. Returns whether a message was dispatched.
func (j *Job) runForUser(ctx context.Context, u models.User, kind models.NotificationLogKind, fn func(context.Context) (bool, error)) (dispatched bool) {
	uctx, cancel := context.WithTimeout(ctx, perUserTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			j.log.Errorw("digest batch panicked for user", "user_id", u.ID, "panic", r)
			dispatched = false
		}
	}()

	dispatched, err := fn(uctx)
	status := models.NotificationLogStatusSent
	if err != nil {
		j.log.Errorw("digest batch failed for user", "user_id", u.ID, "kind", kind, "err", err)
		status = models.NotificationLogStatusSendFailed
		dispatched = false
	}

	if dispatched || err != nil {
		j.dlog.Record(ctx, &models.NotificationLog{
			UserID:    u.ID,
			Kind:      kind,
			Recipient: u.Email,
			Status:    status,
			Data:      datatypes.JSON([]byte("{}")),
		})
	}
	return dispatched
}

// selectDueForReminder keeps the entries due in exactly the user's lead
// time or exactly one day, the two reminder moments of the daily run.
func selectDueForReminder(entries []timeline.Entry, daysBefore int) []timeline.Entry {
	var due []timeline.Entry
	for _, e := range entries {
		if e.DaysUntil == daysBefore || e.DaysUntil == 1 {
			due = append(due, e)
		}
	}
	return due
}

func reminderSubject(count int) string {
	return fmt.Sprintf("Nadchodzące płatności - %d", count)
}

func digestSubject(count int) string {
	return fmt.Sprintf("Twój tydzień w SubTracker - %d płatności", count)
}
