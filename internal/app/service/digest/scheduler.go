package digest

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/subtracker/subtracker/pkg/config"
)

// Scheduler fires the daily reminder and weekly digest runs at their
// configured local wall-clock times.
type Scheduler struct {
	job    *Job
	cfg    cfgpkg.DigestConfig
	loc    *time.Location
	log    *zap.SugaredLogger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(job *Job, cfg *cfgpkg.Config, log *zap.SugaredLogger) *Scheduler {
	loc, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		log.Warnf("unknown digest timezone %q, falling back to UTC: %v", cfg.Digest.Timezone, err)
		loc = time.UTC
	}
	return &Scheduler{job: job, cfg: cfg.Digest, loc: loc, log: log}
}

func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.log.Info("digest scheduler disabled")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{}, 2)
	go s.loop(ctx, "daily_reminder", s.nextDaily, func(ctx context.Context, now time.Time) {
		s.job.RunDaily(ctx, now)
	})
	go s.loop(ctx, "weekly_digest", s.nextWeekly, func(ctx context.Context, now time.Time) {
		s.job.RunWeekly(ctx, now)
	})
	s.log.Infow("digest scheduler started",
		"daily_hour", s.cfg.DailyHour,
		"weekly_weekday", time.Weekday(s.cfg.WeeklyWeekday).String(),
		"weekly_hour", s.cfg.WeeklyHour,
		"timezone", s.loc.String())
}

func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	for i := 0; i < 2; i++ {
		<-s.done
	}
}

func (s *Scheduler) loop(ctx context.Context, name string, next func(time.Time) time.Time, run func(context.Context, time.Time)) {
	defer func() { s.done <- struct{}{} }()
	for {
		now := time.Now().In(s.loc)
		tick := next(now)
		s.log.Infow("digest run scheduled", "run", name, "at", tick.Format(time.RFC3339))

		timer := time.NewTimer(tick.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		run(ctx, time.Now().In(s.loc))
	}
}

// nextDaily returns the next DailyHour tick strictly after now.
func (s *Scheduler) nextDaily(now time.Time) time.Time {
	tick := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.DailyHour, 0, 0, 0, s.loc)
	if !tick.After(now) {
		tick = tick.AddDate(0, 0, 1)
	}
	return tick
}

// nextWeekly returns the next WeeklyWeekday/WeeklyHour tick strictly after
// now.
func (s *Scheduler) nextWeekly(now time.Time) time.Time {
	tick := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.WeeklyHour, 0, 0, 0, s.loc)
	offset := (int(time.Weekday(s.cfg.WeeklyWeekday)) - int(now.Weekday()) + 7) % 7
	tick = tick.AddDate(0, 0, offset)
	if !tick.After(now) {
		tick = tick.AddDate(0, 0, 7)
	}
	return tick
}

func registerScheduler(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}
