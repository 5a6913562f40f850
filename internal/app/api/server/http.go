package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/suniorfit/backend/docs"
	"github.com/suniorfit/backend/internal/app/api/handlers"
	mw "github.com/suniorfit/backend/internal/app/api/middleware"
	"github.com/suniorfit/backend/internal/app/service/ledger"
	"github.com/suniorfit/backend/internal/app/service/notification"
	"github.com/suniorfit/backend/internal/app/service/plan"
	"github.com/suniorfit/backend/internal/app/service/purchase"
	"github.com/suniorfit/backend/internal/app/service/reconciler"
	"github.com/suniorfit/backend/internal/app/service/statistics"
	"github.com/suniorfit/backend/internal/app/service/webhooklog"
	"github.com/suniorfit/backend/internal/platform/tap"
	cfgpkg "github.com/suniorfit/backend/pkg/config"
	metrics "github.com/suniorfit/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Engine        *gin.Engine
	Log           *zap.SugaredLogger
	Cfg           *cfgpkg.Config
	Verifier      *tap.SignatureVerifier
	Reconciler    *reconciler.Service
	WebhookLog    *webhooklog.Service
	Purchases     *purchase.Service
	Plans         *plan.Service
	Notifications *notification.Service
	Ledger        *ledger.Service
	Statistics    *statistics.Service
}

func registerRoutes(d routeDeps) {
	r, log, cfg := d.Engine, d.Log, d.Cfg

	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Provider webhook: signed, never behind user auth
	webhook := r.Group("/api/v1/payment/webhook")
	webhook.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	webhook.POST("/tap", handlers.ApiTapWebhook(d.Verifier, d.Reconciler, d.WebhookLog, log))

	// Browser landing after hosted checkout; Tap appends tap_id itself
	redirect := r.Group("/api/v1/payment")
	redirect.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	redirect.GET("/redirect", handlers.ApiPaymentRedirect(d.Purchases, cfg, log))

	// Authenticated app APIs
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg))

	apiV1.POST("/payment/pay", handlers.ApiCreateCharge(d.Purchases))

	apiV1.GET("/purchases/pending", handlers.ApiListPendingPurchases(d.Purchases))
	apiV1.GET("/purchases/completed", handlers.ApiListCompletedPurchases(d.Purchases))

	apiV1.POST("/plans", handlers.ApiCreatePlan(d.Plans))
	apiV1.GET("/plans", handlers.ApiListPlans(d.Plans))
	apiV1.GET("/plans/:id", handlers.ApiGetPlan(d.Plans))
	apiV1.PUT("/plans/:id", handlers.ApiUpdatePlan(d.Plans))
	apiV1.DELETE("/plans/:id", handlers.ApiDeletePlan(d.Plans))

	apiV1.GET("/notifications", handlers.ApiListNotifications(d.Notifications))
	apiV1.POST("/notifications/:id/read", handlers.ApiMarkNotificationRead(d.Notifications))

	// Admin back-office APIs
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), d.Ledger, d.Statistics)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
