package app

import (
	httpMW "github.com/kitefall/pulse-backend/internal/http/middleware"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type Middleware struct {
	Identity *httpMW.IdentityMiddleware
	Trigger  *httpMW.TriggerMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Identity: httpMW.NewIdentityMiddleware(log),
		Trigger:  httpMW.NewTriggerMiddleware(log, cfg.PipelineTriggerToken),
	}
}
