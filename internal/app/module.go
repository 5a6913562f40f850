package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/suniorfit/backend/internal/app/api/server"
	"github.com/suniorfit/backend/internal/app/service/ledger"
	"github.com/suniorfit/backend/internal/app/service/notification"
	"github.com/suniorfit/backend/internal/app/service/plan"
	"github.com/suniorfit/backend/internal/app/service/purchase"
	"github.com/suniorfit/backend/internal/app/service/reconciler"
	"github.com/suniorfit/backend/internal/app/service/statistics"
	"github.com/suniorfit/backend/internal/app/service/webhooklog"
	"github.com/suniorfit/backend/internal/platform/db"
	"github.com/suniorfit/backend/internal/platform/push"
	"github.com/suniorfit/backend/internal/platform/tap"
	"github.com/suniorfit/backend/pkg/config"
	"github.com/suniorfit/backend/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	tap.Module,
	push.Module,
	server.Module,
	webhooklog.Module,
	notification.Module,
	reconciler.Module,
	purchase.Module,
	plan.Module,
	ledger.Module,
	statistics.Module,
)
