package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kitefall/pulse-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "A",
		LastName:  "B",
		UpdatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedEntity(tb testing.TB, ctx context.Context, tx *gorm.DB, entityType, slug string) *types.WatchedEntity {
	tb.Helper()
	e := &types.WatchedEntity{
		ID:         uuid.New(),
		EntityType: entityType,
		Slug:       slug,
		Name:       slug,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entity: %v", err)
	}
	return e
}

func SeedWatchlistItem(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, entityID uuid.UUID) *types.WatchlistItem {
	tb.Helper()
	item := &types.WatchlistItem{
		ID:              uuid.New(),
		UserID:          userID,
		WatchedEntityID: entityID,
	}
	if err := tx.WithContext(ctx).Create(item).Error; err != nil {
		tb.Fatalf("seed watchlist item: %v", err)
	}
	return item
}

func SeedReadHistory(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, articleType string, readAt time.Time) *types.ReadHistoryEntry {
	tb.Helper()
	e := &types.ReadHistoryEntry{
		ID:          uuid.New(),
		UserID:      userID,
		ArticleType: articleType,
		ReadAt:      readAt,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed read history: %v", err)
	}
	return e
}
