package watchlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kitefall/pulse-backend/internal/domain"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type WatchlistRepo interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.WatchlistItem, error)
	ListEntitiesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.WatchedEntity, error)
	EnsureEntity(ctx context.Context, tx *gorm.DB, entity *types.WatchedEntity) (*types.WatchedEntity, error)
	Add(ctx context.Context, tx *gorm.DB, userID, entityID uuid.UUID) (*types.WatchlistItem, error)
	Remove(ctx context.Context, tx *gorm.DB, userID, entityID uuid.UUID) error
}

type watchlistRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWatchlistRepo(db *gorm.DB, baseLog *logger.Logger) WatchlistRepo {
	return &watchlistRepo{db: db, log: baseLog.With("repo", "WatchlistRepo")}
}

func (wr *watchlistRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.WatchlistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var results []*types.WatchlistItem
	if err := transaction.WithContext(ctx).
		Preload("Entity").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListEntitiesByUser returns just the watched entities, the shape the ranking
// engine consumes.
func (wr *watchlistRepo) ListEntitiesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]types.WatchedEntity, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	var results []types.WatchedEntity
	if err := transaction.WithContext(ctx).
		Joins("JOIN watchlist_item wi ON wi.watched_entity_id = watched_entity.id").
		Where("wi.user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// EnsureEntity upserts the (entity_type, slug) identity and returns the
// stored row.
func (wr *watchlistRepo) EnsureEntity(ctx context.Context, tx *gorm.DB, entity *types.WatchedEntity) (*types.WatchedEntity, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_type"}, {Name: "slug"}},
			DoNothing: true,
		}).
		Create(entity).Error; err != nil {
		return nil, err
	}

	var stored types.WatchedEntity
	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND slug = ?", entity.EntityType, entity.Slug).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (wr *watchlistRepo) Add(ctx context.Context, tx *gorm.DB, userID, entityID uuid.UUID) (*types.WatchlistItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}

	item := &types.WatchlistItem{
		ID:              uuid.New(),
		UserID:          userID,
		WatchedEntityID: entityID,
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "watched_entity_id"}},
			DoNothing: true,
		}).
		Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (wr *watchlistRepo) Remove(ctx context.Context, tx *gorm.DB, userID, entityID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND watched_entity_id = ?", userID, entityID).
		Delete(&types.WatchlistItem{}).Error
}
