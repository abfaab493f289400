package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpH "github.com/kitefall/pulse-backend/internal/http/handlers"
	httpMW "github.com/kitefall/pulse-backend/internal/http/middleware"
)

type RouterConfig struct {
	IdentityMiddleware *httpMW.IdentityMiddleware
	TriggerMiddleware  *httpMW.TriggerMiddleware

	HealthHandler      *httpH.HealthHandler
	PipelineHandler    *httpH.PipelineHandler
	AlertHandler       *httpH.AlertHandler
	WatchlistHandler   *httpH.WatchlistHandler
	PreferenceHandler  *httpH.PreferenceHandler
	ReadHistoryHandler *httpH.ReadHistoryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Internal trigger
	if cfg.PipelineHandler != nil && cfg.TriggerMiddleware != nil {
		internal := r.Group("/internal")
		internal.Use(cfg.TriggerMiddleware.RequireToken())
		internal.POST("/pipeline/run", cfg.PipelineHandler.Run)
	}

	api := r.Group("/api")
	{
		// Middleware
		if cfg.IdentityMiddleware != nil {
			api.Use(cfg.IdentityMiddleware.RequireUser())
		}

		// Alerts
		if cfg.AlertHandler != nil {
			api.GET("/alerts", cfg.AlertHandler.List)
			api.GET("/alerts/unread-count", cfg.AlertHandler.UnreadCount)
			api.POST("/alerts/:id/read", cfg.AlertHandler.MarkRead)
		}

		// Watchlist
		if cfg.WatchlistHandler != nil {
			api.GET("/watchlist", cfg.WatchlistHandler.List)
			api.POST("/watchlist", cfg.WatchlistHandler.Add)
			api.DELETE("/watchlist/:entityId", cfg.WatchlistHandler.Remove)
		}

		// Preferences
		if cfg.PreferenceHandler != nil {
			api.GET("/preferences", cfg.PreferenceHandler.Get)
			api.PUT("/preferences", cfg.PreferenceHandler.Put)
		}

		// Read history
		if cfg.ReadHistoryHandler != nil {
			api.POST("/read-history", cfg.ReadHistoryHandler.Record)
		}
	}

	return r
}
