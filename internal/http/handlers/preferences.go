package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitefall/pulse-backend/internal/data/repos/prefs"
	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/http/middleware"
	"github.com/kitefall/pulse-backend/internal/http/response"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
	"github.com/kitefall/pulse-backend/internal/ranking"
)

type PreferenceHandler struct {
	log      *logger.Logger
	prefRepo prefs.PreferenceRepo
}

func NewPreferenceHandler(baseLog *logger.Logger, prefRepo prefs.PreferenceRepo) *PreferenceHandler {
	return &PreferenceHandler{
		log:      baseLog.With("handler", "PreferenceHandler"),
		prefRepo: prefRepo,
	}
}

// GET /api/preferences
// Always answers with resolved flags: a user without a stored record sees the
// all-enabled defaults.
func (ph *PreferenceHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}

	stored, err := ph.prefRepo.Get(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "get_preferences_failed", err)
		return
	}
	resolved := ranking.ResolvePreferences(stored)
	response.RespondOK(c, gin.H{"preferences": preferencePayload(resolved)})
}

// PUT /api/preferences
// body: any subset of the flag fields; omitted flags keep their current value.
func (ph *PreferenceHandler) Put(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("no user identity"))
		return
	}

	var req struct {
		EmailDailyBrief    *bool `json:"email_daily_brief"`
		EmailWeeklyBrief   *bool `json:"email_weekly_brief"`
		EmailInstantAlerts *bool `json:"email_instant_alerts"`
		InAppAlerts        *bool `json:"in_app_alerts"`
		FundingAlerts      *bool `json:"funding_alerts"`
		ModelReleaseAlerts *bool `json:"model_release_alerts"`
		CompanyNewsAlerts  *bool `json:"company_news_alerts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	stored, err := ph.prefRepo.Get(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "get_preferences_failed", err)
		return
	}
	next := ranking.ResolvePreferences(stored)
	next.UserID = userID
	if stored != nil {
		next.ID = stored.ID
	}

	applyFlag(&next.EmailDailyBrief, req.EmailDailyBrief)
	applyFlag(&next.EmailWeeklyBrief, req.EmailWeeklyBrief)
	applyFlag(&next.EmailInstantAlerts, req.EmailInstantAlerts)
	applyFlag(&next.InAppAlerts, req.InAppAlerts)
	applyFlag(&next.FundingAlerts, req.FundingAlerts)
	applyFlag(&next.ModelReleaseAlerts, req.ModelReleaseAlerts)
	applyFlag(&next.CompanyNewsAlerts, req.CompanyNewsAlerts)

	saved, err := ph.prefRepo.Upsert(c.Request.Context(), nil, &next)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "update_preferences_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": preferencePayload(*saved)})
}

func applyFlag(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func preferencePayload(p types.AlertPreference) gin.H {
	return gin.H{
		"email_daily_brief":    p.EmailDailyBrief,
		"email_weekly_brief":   p.EmailWeeklyBrief,
		"email_instant_alerts": p.EmailInstantAlerts,
		"in_app_alerts":        p.InAppAlerts,
		"funding_alerts":       p.FundingAlerts,
		"model_release_alerts": p.ModelReleaseAlerts,
		"company_news_alerts":  p.CompanyNewsAlerts,
	}
}
