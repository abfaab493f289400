package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	repoalerts "github.com/kitefall/pulse-backend/internal/data/repos/alerts"
	"github.com/kitefall/pulse-backend/internal/http/middleware"
	"github.com/kitefall/pulse-backend/internal/http/response"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

const defaultAlertPageSize = 50

type AlertHandler struct {
	log   *logger.Logger
	inApp repoalerts.InAppAlertRepo
}

func NewAlertHandler(baseLog *logger.Logger, inApp repoalerts.InAppAlertRepo) *AlertHandler {
	return &AlertHandler{
		log:   baseLog.With("handler", "AlertHandler"),
		inApp: inApp,
	}
}

// GET /api/alerts?limit=50&unread=true
func (ah *AlertHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}

	limit := defaultAlertPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	unreadOnly := c.Query("unread") == "true"

	rows, err := ah.inApp.ListByUser(c.Request.Context(), nil, userID, limit, unreadOnly)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_alerts_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"alerts": rows})
}

// POST /api/alerts/:id/read
func (ah *AlertHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid alert id"))
		return
	}

	if err := ah.inApp.MarkRead(c.Request.Context(), nil, userID, alertID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "mark_read_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/alerts/unread-count
func (ah *AlertHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}

	count, err := ah.inApp.CountUnread(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "unread_count_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"unread": count})
}
