package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/subtracker/subtracker/internal/app/api/server"
	"github.com/subtracker/subtracker/internal/app/service/alerts"
	"github.com/subtracker/subtracker/internal/app/service/digest"
	"github.com/subtracker/subtracker/internal/app/service/export"
	"github.com/subtracker/subtracker/internal/app/service/notifylog"
	"github.com/subtracker/subtracker/internal/app/service/sharing"
	"github.com/subtracker/subtracker/internal/app/service/stats"
	"github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/internal/app/service/timeline"
	"github.com/subtracker/subtracker/internal/app/service/user"
	"github.com/subtracker/subtracker/internal/platform/db"
	"github.com/subtracker/subtracker/internal/platform/mail"
	"github.com/subtracker/subtracker/pkg/config"
	"github.com/subtracker/subtracker/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	mail.Module,
	subscription.Module,
	timeline.Module,
	user.Module,
	alerts.Module,
	sharing.Module,
	stats.Module,
	notifylog.Module,
	digest.Module,
	export.Module,
)
