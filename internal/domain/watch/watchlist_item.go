package watch

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistItem links a user to a WatchedEntity. The unique index enforces
// that a (user, entity) pair exists at most once.
type WatchlistItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_entity,priority:1;index" json:"user_id"`
	WatchedEntityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_entity,priority:2" json:"watched_entity_id"`

	Entity *WatchedEntity `gorm:"foreignKey:WatchedEntityID" json:"entity,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (WatchlistItem) TableName() string { return "watchlist_item" }
