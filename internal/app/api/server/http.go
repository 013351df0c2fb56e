package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/subtracker/subtracker/docs"
	"github.com/subtracker/subtracker/internal/app/api/handlers"
	mw "github.com/subtracker/subtracker/internal/app/api/middleware"
	"github.com/subtracker/subtracker/internal/app/service/alerts"
	exportsvc "github.com/subtracker/subtracker/internal/app/service/export"
	"github.com/subtracker/subtracker/internal/app/service/sharing"
	"github.com/subtracker/subtracker/internal/app/service/stats"
	subsvc "github.com/subtracker/subtracker/internal/app/service/subscription"
	tlsvc "github.com/subtracker/subtracker/internal/app/service/timeline"
	usersvc "github.com/subtracker/subtracker/internal/app/service/user"
	cfgpkg "github.com/subtracker/subtracker/pkg/config"
	metrics "github.com/subtracker/subtracker/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request tracing only; request logger & access log are attached per group
	// in registerRoutes.
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log      *zap.SugaredLogger
	Cfg      *cfgpkg.Config
	Subs     *subsvc.Service
	Timeline *tlsvc.Service
	Alerts   *alerts.Service
	Users    *usersvc.Service
	Sharing  *sharing.Service
	Stats    *stats.Service
	Export   *exportsvc.Service
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Prometheus metrics
	if d.Cfg != nil && d.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: d.Log,
		})
		p.SetListenAddress(d.Cfg.MetricsAddr)
		p.Use(r)

		d.Log.Infow("metrics started", "addr", d.Cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected group: bearer-token auth
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware(), mw.AuthMiddleware(d.Cfg))

	handlers.RegisterSubscriptionRoutes(apiV1, d.Subs)
	handlers.RegisterAlertRoutes(apiV1, d.Alerts)
	handlers.RegisterUserRoutes(apiV1, d.Users)
	handlers.RegisterGroupRoutes(apiV1, d.Sharing, d.Subs)
	handlers.RegisterStatsRoutes(apiV1, d.Stats, d.Subs, d.Timeline)
	handlers.RegisterExportRoutes(apiV1, d.Export)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
