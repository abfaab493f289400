package watch

import (
	"time"

	"github.com/google/uuid"
)

// ReadHistoryEntry is an append-only record of an article the user opened.
// The pipeline reads a bounded recent window of these as an implicit
// interest signal.
type ReadHistoryEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_read_history_user_read_at,priority:1" json:"user_id"`
	ArticleType string    `gorm:"column:article_type;type:text;not null" json:"article_type"`
	EntityName  string    `gorm:"column:entity_name;type:text" json:"entity_name,omitempty"`
	ReadAt      time.Time `gorm:"column:read_at;not null;default:now();index:idx_read_history_user_read_at,priority:2,sort:desc" json:"read_at"`
}

func (ReadHistoryEntry) TableName() string { return "read_history_entry" }
