package webhooklog

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/pkg/logctx"
	"github.com/suniorfit/backend/pkg/tool"
)

// Service appends webhook delivery records to the audit log. The payments
// ledger only keeps the latest state per charge; this log keeps every
// delivery so history survives replays.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a webhook event. Nil input is ignored; a
// failed insert only costs the audit entry, never the delivery itself.
func (s *Service) Save(ctx context.Context, evt *models.WebhookEvent) {
	go func() {
		if evt == nil {
			return
		}
		if evt.ID == "" {
			evt.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Create(evt).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save webhook event: %v", err)
		}
	}()
}

// ListByCharge returns the delivery history for one charge, oldest first.
func (s *Service) ListByCharge(ctx context.Context, chargeID string) ([]*models.WebhookEvent, error) {
	var rows []*models.WebhookEvent
	err := s.db.WithContext(ctx).
		Where("charge_id = ?", chargeID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Module exposes the webhook audit log via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
