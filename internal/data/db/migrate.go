package db

import (
	types "github.com/kitefall/pulse-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity
		// =========================
		&types.User{},

		// =========================
		// Watchlist + preferences
		// =========================
		&types.WatchedEntity{},
		&types.WatchlistItem{},
		&types.AlertPreference{},
		&types.ReadHistoryEntry{},

		// =========================
		// Alert delivery
		// =========================
		&types.AlertDeliveryLog{},
		&types.InAppAlert{},
	)
}
