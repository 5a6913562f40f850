package notification

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/suniorfit/backend/internal/models"
	"github.com/suniorfit/backend/internal/platform/push"
	"github.com/suniorfit/backend/pkg/logctx"
	"github.com/suniorfit/backend/pkg/tool"
	"github.com/suniorfit/backend/pkg/types"
)

// Service persists notifications and fans them out over the real-time
// channel. The database row is the durable record; push is a convenience
// layer whose failures are logged and swallowed.
type Service struct {
	db     *gorm.DB
	pusher push.Pusher
	log    *zap.SugaredLogger
}

func New(db *gorm.DB, pusher push.Pusher, log *zap.SugaredLogger) *Service {
	return &Service{db: db, pusher: pusher, log: log}
}

// Payload carries the structured data of a notification plus optional copy
// overrides. Copy left empty is filled from the per-type fallback templates.
type Payload struct {
	Title     string
	Message   string
	TitleAr   string
	MessageAr string
	DeepLink  string
	Data      map[string]any
}

// Dispatch persists a notification for recipientID and attempts best-effort
// push to their private channel. Push errors never propagate.
func (s *Service) Dispatch(ctx context.Context, recipientID int64, typ types.NotificationType, p Payload) (*models.Notification, error) {
	fillFallbackCopy(typ, &p)

	dataBytes, _ := json.Marshal(p.Data)
	n := &models.Notification{
		ID:          tool.GenerateUUIDV7(),
		RecipientID: recipientID,
		Type:        typ,
		Title:       p.Title,
		Message:     p.Message,
		TitleAr:     p.TitleAr,
		MessageAr:   p.MessageAr,
		Data:        datatypes.JSON(dataBytes),
		DeepLink:    p.DeepLink,
	}

	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("notification_persist_failed",
			"recipient_id", recipientID, "type", typ, "error", err.Error())
		return nil, err
	}

	s.pushBestEffort(ctx, recipientID, n)
	return n, nil
}

func (s *Service) pushBestEffort(ctx context.Context, recipientID int64, n *models.Notification) {
	// own deadline so a slow push transport cannot stall the caller's
	// webhook-acknowledgment path
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	channel := push.UserChannel(recipientID)
	if err := s.pusher.Trigger(pushCtx, channel, "notification", map[string]any{"notification": n}); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("notification_push_failed",
			"channel", channel, "notification_id", n.ID, "error", err.Error())
	}
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64, unreadOnly bool) ([]*models.Notification, error) {
	q := s.db.WithContext(ctx).Where("recipient_id = ?", userID).Order("created_at DESC")
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	var rows []*models.Notification
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead sets read_at once; marking an already-read notification is a no-op.
func (s *Service) MarkRead(ctx context.Context, userID int64, notificationID string) error {
	now := time.Now()
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", &now).Error
}
