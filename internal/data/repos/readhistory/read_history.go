package readhistory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type ReadHistoryRepo interface {
	Record(ctx context.Context, tx *gorm.DB, entries []*types.ReadHistoryEntry) error
	ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.ReadHistoryEntry, error)
}

type readHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadHistoryRepo(db *gorm.DB, baseLog *logger.Logger) ReadHistoryRepo {
	return &readHistoryRepo{db: db, log: baseLog.With("repo", "ReadHistoryRepo")}
}

func (rr *readHistoryRepo) Record(ctx context.Context, tx *gorm.DB, entries []*types.ReadHistoryEntry) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(entries) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&entries).Error
}

func (rr *readHistoryRepo) ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]types.ReadHistoryEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []types.ReadHistoryEntry
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("read_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
