package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kitefall/pulse-backend/internal/http/response"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

const userIDKey = "pulse.user_id"

// IdentityMiddleware resolves the caller from the X-User-ID header set by the
// auth gateway in front of this service. The service itself never verifies
// credentials.
type IdentityMiddleware struct {
	log *logger.Logger
}

func NewIdentityMiddleware(baseLog *logger.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{log: baseLog.With("middleware", "IdentityMiddleware")}
}

func (im *IdentityMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing X-User-ID header"))
			c.Abort()
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid X-User-ID header"))
			c.Abort()
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the identity resolved by RequireUser. The second return is
// false on routes that skipped the middleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
