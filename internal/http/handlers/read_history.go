package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kitefall/pulse-backend/internal/data/repos/readhistory"
	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/http/middleware"
	"github.com/kitefall/pulse-backend/internal/http/response"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type ReadHistoryHandler struct {
	log         *logger.Logger
	historyRepo readhistory.ReadHistoryRepo
}

func NewReadHistoryHandler(baseLog *logger.Logger, historyRepo readhistory.ReadHistoryRepo) *ReadHistoryHandler {
	return &ReadHistoryHandler{
		log:         baseLog.With("handler", "ReadHistoryHandler"),
		historyRepo: historyRepo,
	}
}

// POST /api/read-history
// body: { "article_type": "funding", "entity_name": "Nvidia", "read_at": "..." }
// read_at defaults to now.
func (rh *ReadHistoryHandler) Record(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}

	var req struct {
		ArticleType string     `json:"article_type"`
		EntityName  string     `json:"entity_name"`
		ReadAt      *time.Time `json:"read_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.ArticleType = strings.TrimSpace(req.ArticleType)
	if req.ArticleType == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("article_type is required"))
		return
	}

	readAt := time.Now().UTC()
	if req.ReadAt != nil {
		readAt = req.ReadAt.UTC()
	}

	err := rh.historyRepo.Record(c.Request.Context(), nil, []*types.ReadHistoryEntry{{
		UserID:      userID,
		ArticleType: req.ArticleType,
		EntityName:  strings.TrimSpace(req.EntityName),
		ReadAt:      readAt,
	}})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "record_read_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
