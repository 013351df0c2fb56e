package digest

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subtracker/subtracker/internal/app/service/notifylog"
	"github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/internal/app/service/timeline"
	"github.com/subtracker/subtracker/internal/app/service/user"
	"github.com/subtracker/subtracker/internal/platform/mail"
)

var Module = fx.Options(
	fx.Provide(func(u *user.Service, s *subscription.Service, tl *timeline.Service, m mail.Mailer, nl *notifylog.Service, log *zap.SugaredLogger) *Job {
		return NewJob(u, s, tl, m, nl, log)
	}),
	fx.Provide(NewScheduler),
	fx.Invoke(registerScheduler),
)
