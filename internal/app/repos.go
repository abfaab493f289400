package app

import (
	"gorm.io/gorm"

	repoalerts "github.com/kitefall/pulse-backend/internal/data/repos/alerts"
	"github.com/kitefall/pulse-backend/internal/data/repos/prefs"
	"github.com/kitefall/pulse-backend/internal/data/repos/readhistory"
	"github.com/kitefall/pulse-backend/internal/data/repos/user"
	"github.com/kitefall/pulse-backend/internal/data/repos/watchlist"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type Repos struct {
	User        user.UserRepo
	Watchlist   watchlist.WatchlistRepo
	Preference  prefs.PreferenceRepo
	ReadHistory readhistory.ReadHistoryRepo
	DeliveryLog repoalerts.DeliveryLogRepo
	InAppAlert  repoalerts.InAppAlertRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        user.NewUserRepo(db, log),
		Watchlist:   watchlist.NewWatchlistRepo(db, log),
		Preference:  prefs.NewPreferenceRepo(db, log),
		ReadHistory: readhistory.NewReadHistoryRepo(db, log),
		DeliveryLog: repoalerts.NewDeliveryLogRepo(db, log),
		InAppAlert:  repoalerts.NewInAppAlertRepo(db, log),
	}
}
