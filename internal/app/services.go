package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/kitefall/pulse-backend/internal/alerts"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
	"github.com/kitefall/pulse-backend/internal/platform/mailer"
	"github.com/kitefall/pulse-backend/internal/signals"
)

type Services struct {
	Mailer     mailer.Mailer
	Source     signals.Source
	Dispatcher *alerts.Dispatcher
	Pipeline   alerts.PipelineService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	mailCfg := mailer.ConfigFromEnv()
	var mail mailer.Mailer
	if mailCfg.APIKey == "" {
		log.Warn("SENDGRID_API_KEY not set, email delivery runs in dry-run mode")
		mail = mailer.NewNoop(log)
	} else {
		var err error
		mail, err = mailer.New(log, mailCfg)
		if err != nil {
			return Services{}, err
		}
	}

	source, err := signals.NewCachedSource(log, signals.NewStaticSource(signals.SampleSignals(time.Now())))
	if err != nil {
		return Services{}, err
	}

	dispatcher := alerts.NewDispatcher(log, repos.DeliveryLog, repos.InAppAlert, mail)

	pipeline := alerts.NewPipelineService(
		db, log,
		repos.User, repos.Watchlist, repos.Preference, repos.ReadHistory,
		source, dispatcher,
		cfg.PipelineWorkers, cfg.PipelineInterval,
	)

	return Services{
		Mailer:     mail,
		Source:     source,
		Dispatcher: dispatcher,
		Pipeline:   pipeline,
	}, nil
}
