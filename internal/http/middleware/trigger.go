package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitefall/pulse-backend/internal/http/response"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

// TriggerMiddleware guards the internal pipeline trigger with a shared
// secret. With no token configured the route is closed entirely rather than
// left open.
type TriggerMiddleware struct {
	log   *logger.Logger
	token string
}

func NewTriggerMiddleware(baseLog *logger.Logger, token string) *TriggerMiddleware {
	return &TriggerMiddleware{
		log:   baseLog.With("middleware", "TriggerMiddleware"),
		token: token,
	}
}

func (tm *TriggerMiddleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tm.token == "" {
			response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("pipeline trigger is not configured"))
			c.Abort()
			return
		}
		got := c.GetHeader("X-Pipeline-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(tm.token)) != 1 {
			tm.log.Warn("Rejected pipeline trigger", "remote_addr", c.ClientIP())
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid trigger token"))
			c.Abort()
			return
		}
		c.Next()
	}
}
