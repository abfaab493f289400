package watch

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertPreference holds the per-user channel and category switches. A user
// without a row gets all-true defaults (opt-out model); see
// ranking.ResolvePreferences.
type AlertPreference struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	EmailDailyBrief    bool `gorm:"column:email_daily_brief;not null;default:true" json:"email_daily_brief"`
	EmailWeeklyBrief   bool `gorm:"column:email_weekly_brief;not null;default:true" json:"email_weekly_brief"`
	EmailInstantAlerts bool `gorm:"column:email_instant_alerts;not null;default:true" json:"email_instant_alerts"`
	InAppAlerts        bool `gorm:"column:in_app_alerts;not null;default:true" json:"in_app_alerts"`
	FundingAlerts      bool `gorm:"column:funding_alerts;not null;default:true" json:"funding_alerts"`
	ModelReleaseAlerts bool `gorm:"column:model_release_alerts;not null;default:true" json:"model_release_alerts"`
	CompanyNewsAlerts  bool `gorm:"column:company_news_alerts;not null;default:true" json:"company_news_alerts"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AlertPreference) TableName() string { return "alert_preference" }
