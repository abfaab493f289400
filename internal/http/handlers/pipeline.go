package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitefall/pulse-backend/internal/alerts"
	"github.com/kitefall/pulse-backend/internal/http/response"
	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

type PipelineHandler struct {
	log      *logger.Logger
	pipeline alerts.PipelineService
}

func NewPipelineHandler(baseLog *logger.Logger, pipeline alerts.PipelineService) *PipelineHandler {
	return &PipelineHandler{
		log:      baseLog.With("handler", "PipelineHandler"),
		pipeline: pipeline,
	}
}

// POST /internal/pipeline/run
// body (optional): { "max_users": 500, "threshold": 60 }
func (ph *PipelineHandler) Run(c *gin.Context) {
	var req struct {
		MaxUsers  int     `json:"max_users"`
		Threshold float64 `json:"threshold"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}

	report, err := ph.pipeline.Run(c.Request.Context(), alerts.RunOptions{
		MaxUsers:  req.MaxUsers,
		Threshold: req.Threshold,
	})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "pipeline_run_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}
