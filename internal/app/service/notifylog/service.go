package notifylog

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/pkg/logctx"
	"github.com/subtracker/subtracker/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Record asynchronously persists a digest dispatch record. Nil input is
// ignored; persistence errors are logged, never surfaced — the audit trail
// must not affect delivery.
func (s *Service) Record(ctx context.Context, entry *models.NotificationLog) {
	go func() {
		if entry == nil {
			return
		}
		if entry.ID == "" {
			entry.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save notification log: %v", err)
		}
	}()
}

var Module = fx.Options(
	fx.Provide(New),
)
