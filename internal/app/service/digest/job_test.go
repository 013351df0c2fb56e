package digest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/subtracker/subtracker/internal/app/service/timeline"
	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/platform/mail"
	"github.com/subtracker/subtracker/pkg/config"
	"github.com/subtracker/subtracker/pkg/types"
)

type fakeUsers struct {
	users []models.User
	err   error
}

func (f *fakeUsers) ListAll(ctx context.Context) ([]models.User, error) {
	return f.users, f.err
}

type fakeSubs struct {
	byUser map[string][]models.Subscription
	err    map[string]error
}

func (f *fakeSubs) ListBillable(ctx context.Context, userID string) ([]models.Subscription, error) {
	if err := f.err[userID]; err != nil {
		return nil, err
	}
	return f.byUser[userID], nil
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []mail.Message
	failTo map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failTo[msg.To]; err != nil {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeDispatchLog struct {
	mu      sync.Mutex
	entries []models.NotificationLog
}

func (f *fakeDispatchLog) Record(ctx context.Context, entry *models.NotificationLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
}

func testUser(id, email string, settings types.NotificationSettings) models.User {
	return models.User{
		ID:            id,
		Email:         email,
		DisplayName:   "User " + id,
		Notifications: datatypes.NewJSONType(settings),
	}
}

func testSub(name string, cycle types.Cycle, startDate string) models.Subscription {
	return models.Subscription{
		Name:      name,
		Amount:    43,
		Currency:  types.CurrencyPLN,
		Cycle:     cycle,
		StartDate: startDate,
		Status:    types.SubscriptionStatusActive,
	}
}

func newTestJob(users userSource, subs subscriptionSource, mailer mail.Mailer, dlog dispatchLog) *Job {
	return NewJob(users, subs, timeline.NewService(), mailer, dlog, zap.NewNop().Sugar())
}

func TestRunDailySendsOnLeadDayAndTomorrow(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	settings := types.DefaultNotificationSettings() // DaysBefore 3

	subs := &fakeSubs{byUser: map[string][]models.Subscription{
		"u1": {
			testSub("due-in-3", types.CycleMonthly, "2025-05-13"), // next 2025-06-13
			testSub("due-in-1", types.CycleMonthly, "2025-05-11"), // next 2025-06-11
			testSub("due-in-5", types.CycleMonthly, "2025-05-15"), // next 2025-06-15
		},
	}}
	mailer := &fakeMailer{}
	dlog := &fakeDispatchLog{}
	job := newTestJob(&fakeUsers{users: []models.User{testUser("u1", "u1@example.com", settings)}}, subs, mailer, dlog)

	job.RunDaily(context.Background(), now)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "u1@example.com", msg.To)
	assert.Contains(t, msg.HTML, "due-in-3")
	assert.Contains(t, msg.HTML, "due-in-1")
	assert.NotContains(t, msg.HTML, "due-in-5")

	require.Len(t, dlog.entries, 1)
	assert.Equal(t, models.NotificationLogKindDailyReminder, dlog.entries[0].Kind)
	assert.Equal(t, models.NotificationLogStatusSent, dlog.entries[0].Status)
}

func TestRunDailySkipsUsersWithEmailDisabled(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	disabled := types.DefaultNotificationSettings()
	disabled.EmailEnabled = false
	off := types.DefaultNotificationSettings()
	off.Enabled = false

	subs := &fakeSubs{byUser: map[string][]models.Subscription{
		"u1": {testSub("s", types.CycleMonthly, "2025-05-11")},
		"u2": {testSub("s", types.CycleMonthly, "2025-05-11")},
	}}
	mailer := &fakeMailer{}
	job := newTestJob(&fakeUsers{users: []models.User{
		testUser("u1", "u1@example.com", disabled),
		testUser("u2", "u2@example.com", off),
	}}, subs, mailer, &fakeDispatchLog{})

	job.RunDaily(context.Background(), now)

	assert.Empty(t, mailer.sent)
}

func TestRunDailySendsNothingWhenNothingDue(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	subs := &fakeSubs{byUser: map[string][]models.Subscription{
		"u1": {testSub("far-away", types.CycleMonthly, "2025-06-05")}, // next 2025-07-05
	}}
	mailer := &fakeMailer{}
	dlog := &fakeDispatchLog{}
	job := newTestJob(&fakeUsers{users: []models.User{testUser("u1", "u1@example.com", types.DefaultNotificationSettings())}}, subs, mailer, dlog)

	job.RunDaily(context.Background(), now)

	assert.Empty(t, mailer.sent)
	assert.Empty(t, dlog.entries, "no-op runs leave no audit record")
}

func TestRunWeeklyOneUserFailureDoesNotAbortOthers(t *testing.T) {
	now := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC) // Monday
	settings := types.DefaultNotificationSettings()

	subs := &fakeSubs{byUser: map[string][]models.Subscription{
		"u1": {testSub("a", types.CycleMonthly, "2025-05-12")},
		"u2": {testSub("b", types.CycleMonthly, "2025-05-12")},
		"u3": {testSub("c", types.CycleMonthly, "2025-05-12")},
	}}
	mailer := &fakeMailer{failTo: map[string]error{
		"u2@example.com": errors.New("smtp unavailable"),
	}}
	dlog := &fakeDispatchLog{}
	job := newTestJob(&fakeUsers{users: []models.User{
		testUser("u1", "u1@example.com", settings),
		testUser("u2", "u2@example.com", settings),
		testUser("u3", "u3@example.com", settings),
	}}, subs, mailer, dlog)

	job.RunWeekly(context.Background(), now)

	require.Len(t, mailer.sent, 2)
	recipients := []string{mailer.sent[0].To, mailer.sent[1].To}
	assert.Contains(t, recipients, "u1@example.com")
	assert.Contains(t, recipients, "u3@example.com")

	require.Len(t, dlog.entries, 3)
	statusByUser := map[string]models.NotificationLogStatus{}
	for _, e := range dlog.entries {
		statusByUser[e.UserID] = e.Status
	}
	assert.Equal(t, models.NotificationLogStatusSent, statusByUser["u1"])
	assert.Equal(t, models.NotificationLogStatusSendFailed, statusByUser["u2"])
	assert.Equal(t, models.NotificationLogStatusSent, statusByUser["u3"])
}

func TestRunWeeklySubscriptionListFailureIsPerUser(t *testing.T) {
	now := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	settings := types.DefaultNotificationSettings()

	subs := &fakeSubs{
		byUser: map[string][]models.Subscription{
			"u2": {testSub("b", types.CycleMonthly, "2025-05-12")},
		},
		err: map[string]error{"u1": errors.New("db timeout")},
	}
	mailer := &fakeMailer{}
	job := newTestJob(&fakeUsers{users: []models.User{
		testUser("u1", "u1@example.com", settings),
		testUser("u2", "u2@example.com", settings),
	}}, subs, mailer, &fakeDispatchLog{})

	job.RunWeekly(context.Background(), now)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "u2@example.com", mailer.sent[0].To)
}

func TestRunWeeklyRespectsWeeklyDigestFlag(t *testing.T) {
	now := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	noDigest := types.DefaultNotificationSettings()
	noDigest.WeeklyDigest = false

	subs := &fakeSubs{byUser: map[string][]models.Subscription{
		"u1": {testSub("a", types.CycleMonthly, "2025-05-12")},
	}}
	mailer := &fakeMailer{}
	job := newTestJob(&fakeUsers{users: []models.User{testUser("u1", "u1@example.com", noDigest)}}, subs, mailer, &fakeDispatchLog{})

	job.RunWeekly(context.Background(), now)

	assert.Empty(t, mailer.sent)
}

func TestSelectDueForReminder(t *testing.T) {
	entries := []timeline.Entry{
		{Subscription: models.Subscription{Name: "today"}, DaysUntil: 0},
		{Subscription: models.Subscription{Name: "tomorrow"}, DaysUntil: 1},
		{Subscription: models.Subscription{Name: "lead"}, DaysUntil: 3},
		{Subscription: models.Subscription{Name: "later"}, DaysUntil: 5},
	}
	due := selectDueForReminder(entries, 3)
	require.Len(t, due, 2)
	assert.Equal(t, "tomorrow", due[0].Subscription.Name)
	assert.Equal(t, "lead", due[1].Subscription.Name)
}

func TestRenderReminderTotalsInReferenceCurrency(t *testing.T) {
	due := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	entries := []timeline.Entry{
		{Subscription: models.Subscription{Name: "Netflix", Amount: 43, Currency: types.CurrencyPLN}, NextDue: due},
		{Subscription: models.Subscription{Name: "iCloud", Amount: 10, Currency: types.CurrencyUSD}, NextDue: due},
	}
	html := renderReminder("Anna", entries, 3)
	assert.Contains(t, html, "Anna")
	assert.Contains(t, html, "Netflix")
	assert.Contains(t, html, "2025-06-13")
	// 43 PLN + 10 USD * 4.0
	assert.Contains(t, html, "83.00 PLN")
}

func TestRenderDigestListsWeekdays(t *testing.T) {
	entries := []timeline.Entry{
		{Subscription: models.Subscription{Name: "Spotify", Amount: 20, Currency: types.CurrencyPLN}, NextDue: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)},
	}
	html := renderDigest("Jan", entries)
	assert.Contains(t, html, "Jan")
	assert.Contains(t, html, "Spotify")
	assert.True(t, strings.Contains(html, "Wednesday"))
	assert.Contains(t, html, "20.00 PLN")
}

func TestSchedulerNextTicks(t *testing.T) {
	s := &Scheduler{
		cfg: config.DigestConfig{DailyHour: 8, WeeklyWeekday: 1, WeeklyHour: 9},
		loc: time.UTC,
	}

	// Tuesday 07:00 -> same day 08:00.
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC), s.nextDaily(now))

	// Tuesday 08:00 exactly -> tomorrow, ticks are strictly in the future.
	now = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC), s.nextDaily(now))

	// Tuesday -> next Monday 09:00.
	now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC), s.nextWeekly(now))

	// Monday 08:00 -> same day 09:00.
	now = time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC), s.nextWeekly(now))

	// Monday 10:00 -> a week ahead.
	now = time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC), s.nextWeekly(now))
}
