package app

import (
	"time"

	"github.com/kitefall/pulse-backend/internal/platform/envutil"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type Config struct {
	HTTPAddr             string
	PipelineWorkers      int
	PipelineInterval     time.Duration
	PipelineTriggerToken string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		HTTPAddr:             envutil.String("HTTP_ADDR", ":8080"),
		PipelineWorkers:      envutil.Int("PIPELINE_WORKERS", 4),
		PipelineInterval:     envutil.Duration("PIPELINE_INTERVAL", time.Hour),
		PipelineTriggerToken: envutil.String("PIPELINE_TRIGGER_TOKEN", ""),
	}
	if cfg.PipelineTriggerToken == "" {
		log.Warn("PIPELINE_TRIGGER_TOKEN not set, manual pipeline trigger disabled")
	}
	return cfg
}
