package app

import (
	httpH "github.com/kitefall/pulse-backend/internal/http/handlers"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Pipeline    *httpH.PipelineHandler
	Alert       *httpH.AlertHandler
	Watchlist   *httpH.WatchlistHandler
	Preference  *httpH.PreferenceHandler
	ReadHistory *httpH.ReadHistoryHandler
}

func wireHandlers(log *logger.Logger, services Services, repos Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Pipeline:    httpH.NewPipelineHandler(log, services.Pipeline),
		Alert:       httpH.NewAlertHandler(log, repos.InAppAlert),
		Watchlist:   httpH.NewWatchlistHandler(log, repos.Watchlist),
		Preference:  httpH.NewPreferenceHandler(log, repos.Preference),
		ReadHistory: httpH.NewReadHistoryHandler(log, repos.ReadHistory),
	}
}
