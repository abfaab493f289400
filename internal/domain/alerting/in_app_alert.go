package alerting

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InAppAlert is a user-visible notification surfaced in the product. The
// unique index on (user_id, signal_id) backs up the ledger check so the same
// signal can never be surfaced twice even under concurrent runs.
type InAppAlert struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_in_app_alert_user_signal,priority:1;index" json:"user_id"`
	SignalID  string         `gorm:"column:signal_id;type:text;not null;uniqueIndex:idx_in_app_alert_user_signal,priority:2" json:"signal_id"`
	Title     string         `gorm:"column:title;type:text;not null" json:"title"`
	Message   string         `gorm:"column:message;type:text" json:"message"`
	URL       string         `gorm:"column:url;type:text" json:"url,omitempty"`
	EventType string         `gorm:"column:event_type;type:text;not null;index" json:"event_type"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	ReadAt    *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (InAppAlert) TableName() string { return "in_app_alert" }
