package prefs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type PreferenceRepo interface {
	// Get returns nil (not an error) when the user has no stored record;
	// callers resolve defaults via ranking.ResolvePreferences.
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.AlertPreference, error)
	Upsert(ctx context.Context, tx *gorm.DB, pref *types.AlertPreference) (*types.AlertPreference, error)
}

type preferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return &preferenceRepo{db: db, log: baseLog.With("repo", "PreferenceRepo")}
}

func (pr *preferenceRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.AlertPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.AlertPreference
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *preferenceRepo) Upsert(ctx context.Context, tx *gorm.DB, pref *types.AlertPreference) (*types.AlertPreference, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if pref.ID == uuid.Nil {
		pref.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email_daily_brief",
				"email_weekly_brief",
				"email_instant_alerts",
				"in_app_alerts",
				"funding_alerts",
				"model_release_alerts",
				"company_news_alerts",
				"updated_at",
			}),
		}).
		Create(pref).Error; err != nil {
		return nil, err
	}
	return pref, nil
}
