package reconciler

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/suniorfit/backend/internal/app/service/notification"
)

func newService(store Store, notif *notification.Service, log *zap.SugaredLogger) *Service {
	return NewService(store, notif, log)
}

// Module exposes the webhook reconciler via Fx.
var Module = fx.Options(
	fx.Provide(NewGormStore),
	fx.Provide(newService),
)
