package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kitefall/pulse-backend/internal/data/repos/watchlist"
	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/http/middleware"
	"github.com/kitefall/pulse-backend/internal/http/response"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
	"github.com/kitefall/pulse-backend/internal/ranking"
)

type WatchlistHandler struct {
	log           *logger.Logger
	watchlistRepo watchlist.WatchlistRepo
}

func NewWatchlistHandler(baseLog *logger.Logger, watchlistRepo watchlist.WatchlistRepo) *WatchlistHandler {
	return &WatchlistHandler{
		log:           baseLog.With("handler", "WatchlistHandler"),
		watchlistRepo: watchlistRepo,
	}
}

// GET /api/watchlist
func (wh *WatchlistHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}

	items, err := wh.watchlistRepo.ListByUser(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_watchlist_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

// POST /api/watchlist
// body: { "entity_type": "company", "name": "Nvidia" }
func (wh *WatchlistHandler) Add(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}

	var req struct {
		EntityType string `json:"entity_type"`
		Name       string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("name is required"))
		return
	}
	if !validEntityType(req.EntityType) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("unknown entity_type"))
		return
	}

	entity, err := wh.watchlistRepo.EnsureEntity(c.Request.Context(), nil, &types.WatchedEntity{
		EntityType: req.EntityType,
		Name:       req.Name,
		Slug:       ranking.Slugify(req.Name),
	})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "ensure_entity_failed", err)
		return
	}

	item, err := wh.watchlistRepo.Add(c.Request.Context(), nil, userID, entity.ID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "add_watchlist_failed", err)
		return
	}
	item.Entity = entity
	response.RespondOK(c, gin.H{"item": item})
}

// DELETE /api/watchlist/:entityId
func (wh *WatchlistHandler) Remove(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}
	entityID, err := uuid.Parse(c.Param("entityId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid entity id"))
		return
	}

	if err := wh.watchlistRepo.Remove(c.Request.Context(), nil, userID, entityID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "remove_watchlist_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func validEntityType(t string) bool {
	switch t {
	case types.EntityTypeCompany, types.EntityTypeModel, types.EntityTypeFunding:
		return true
	}
	return false
}
