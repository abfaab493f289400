package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type InAppAlertRepo interface {
	// CreateBatch inserts alerts in one statement, skipping rows whose
	// (user_id, signal_id) already exists. Returns the number of rows
	// actually written.
	CreateBatch(ctx context.Context, tx *gorm.DB, alerts []*types.InAppAlert) (int64, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int, unreadOnly bool) ([]*types.InAppAlert, error)
	MarkRead(ctx context.Context, tx *gorm.DB, userID, alertID uuid.UUID) error
	CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type inAppAlertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInAppAlertRepo(db *gorm.DB, baseLog *logger.Logger) InAppAlertRepo {
	return &inAppAlertRepo{db: db, log: baseLog.With("repo", "InAppAlertRepo")}
}

func (ar *inAppAlertRepo) CreateBatch(ctx context.Context, tx *gorm.DB, alerts []*types.InAppAlert) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(alerts) == 0 {
		return 0, nil
	}
	for _, a := range alerts {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "signal_id"}},
			DoNothing: true,
		}).
		Create(&alerts)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (ar *inAppAlertRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int, unreadOnly bool) ([]*types.InAppAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.InAppAlert
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *inAppAlertRepo) MarkRead(ctx context.Context, tx *gorm.DB, userID, alertID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.InAppAlert{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", alertID, userID).
		Update("read_at", now).Error
}

func (ar *inAppAlertRepo) CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.InAppAlert{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
