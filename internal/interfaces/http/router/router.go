package router

import (
	"github.com/aqarcrm/backend/internal/infrastructure/config"
	"github.com/aqarcrm/backend/internal/infrastructure/logger"
	"github.com/aqarcrm/backend/internal/interfaces/http/handler"
	"github.com/aqarcrm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Collection *handler.CollectionPaymentHandler
	Supply     *handler.SupplyPaymentHandler
	Settings   *handler.SettingsHandler
	System     *handler.SystemHandler
}

// Setup builds the gin engine with middleware and all API routes.
func Setup(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	v1 := engine.Group("/api/v1")
	{
		system := v1.Group("/system")
		{
			system.GET("/info", h.System.GetSystemInfo)
		}

		collections := v1.Group("/collection-payments")
		{
			collections.POST("", h.Collection.Create)
			collections.GET("", h.Collection.List)
			collections.GET("/summary", h.Collection.Summary)
			collections.GET("/:id", h.Collection.Get)
			collections.PUT("/:id", h.Collection.Update)
			collections.POST("/:id/postpone", h.Collection.Postpone)
			collections.POST("/:id/collect", h.Collection.Collect)
			collections.DELETE("/:id", h.Collection.Delete)
		}

		supplies := v1.Group("/supply-payments")
		{
			supplies.POST("", h.Supply.Create)
			supplies.GET("", h.Supply.List)
			supplies.GET("/summary", h.Supply.Summary)
			supplies.GET("/:id", h.Supply.Get)
			supplies.PUT("/:id", h.Supply.Update)
			supplies.POST("/:id/pay", h.Supply.MarkPaid)
			supplies.POST("/:id/approve", h.Supply.Approve)
			supplies.POST("/:id/reject", h.Supply.Reject)
			supplies.DELETE("/:id", h.Supply.Delete)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/:key", h.Settings.Get)
			settings.PUT("/:key", h.Settings.Update)
		}
	}

	return engine
}
