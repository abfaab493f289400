package app

import (
	"github.com/gin-gonic/gin"

	pulsehttp "github.com/kitefall/pulse-backend/internal/http"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return pulsehttp.NewRouter(pulsehttp.RouterConfig{
		IdentityMiddleware: middleware.Identity,
		TriggerMiddleware:  middleware.Trigger,
		HealthHandler:      handlers.Health,
		PipelineHandler:    handlers.Pipeline,
		AlertHandler:       handlers.Alert,
		WatchlistHandler:   handlers.Watchlist,
		PreferenceHandler:  handlers.Preference,
		ReadHistoryHandler: handlers.ReadHistory,
	})
}
