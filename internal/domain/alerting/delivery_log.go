package alerting

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Delivery channels.
const (
	ChannelInApp        = "in_app"
	ChannelEmailInstant = "email_instant"
	ChannelEmailDaily   = "email_daily"
)

// AlertDeliveryLog is the append-only idempotency ledger. The unique index on
// (user_id, signal_id, channel) is the dedup key; daily digests store a
// synthetic per-day signal id ("daily-<date>") so the key space yields
// once-per-user-per-day directly.
type AlertDeliveryLog struct {
	ID       uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_delivery_log_key,priority:1;index" json:"user_id"`
	SignalID string         `gorm:"column:signal_id;type:text;not null;uniqueIndex:idx_delivery_log_key,priority:2" json:"signal_id"`
	Channel  string         `gorm:"column:channel;type:text;not null;uniqueIndex:idx_delivery_log_key,priority:3" json:"channel"`
	Metadata datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (AlertDeliveryLog) TableName() string { return "alert_delivery_log" }
