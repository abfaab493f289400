package watch

import (
	"time"

	"github.com/google/uuid"
)

// Entity types a user can watch. The set mirrors the signal event sources:
// companies (news/funding), models (releases) and funds.
const (
	EntityTypeCompany = "company"
	EntityTypeModel   = "model"
	EntityTypeFunding = "funding"
)

// WatchedEntity is a followable company/model/fund. Identity is
// (entity_type, slug); the same slug may exist under different types.
type WatchedEntity struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EntityType string    `gorm:"column:entity_type;type:text;not null;uniqueIndex:idx_watched_entity_type_slug,priority:1" json:"entity_type"`
	Slug       string    `gorm:"column:slug;type:text;not null;uniqueIndex:idx_watched_entity_type_slug,priority:2" json:"slug"`
	Name       string    `gorm:"column:name;type:text;not null" json:"name"`
	URL        string    `gorm:"column:url;type:text" json:"url,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (WatchedEntity) TableName() string { return "watched_entity" }
