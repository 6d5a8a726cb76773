package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/httpapi/response"
	"github.com/shark8848/knowledge-transformer/internal/orchestrator"
	"github.com/shark8848/knowledge-transformer/internal/platform/apierr"
)

// ConvertHandler serves POST /convert. task_name is accepted for wire
// compatibility but otherwise unused: the workflow id is always a freshly
// generated job id so repeated submissions of the same task_name never
// collide.
type ConvertHandler struct {
	Orchestrator  *orchestrator.Service
	MaxBatchFiles int
	MaxTotalMB    float64
	DefaultFileMB float64
}

func NewConvertHandler(svc *orchestrator.Service, maxBatchFiles int, maxTotalMB, defaultFileMB float64) *ConvertHandler {
	return &ConvertHandler{Orchestrator: svc, MaxBatchFiles: maxBatchFiles, MaxTotalMB: maxTotalMB, DefaultFileMB: defaultFileMB}
}

type convertRequestBody struct {
	TaskName    string                  `json:"task_name"`
	Files       []domain.FileSpec       `json:"files"`
	Priority    domain.Priority         `json:"priority"`
	CallbackURL string                  `json:"callback_url,omitempty"`
	Storage     *domain.StorageOverride `json:"storage,omitempty"`
	Mode        string                  `json:"mode,omitempty"`
}

func (h *ConvertHandler) Convert(c *gin.Context) {
	var body convertRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apierr.FormatUnsupported(err))
		return
	}

	sync := body.Mode == "sync"
	if err := validateConvertRequest(body.Files, sync, h.MaxBatchFiles, h.MaxTotalMB, h.DefaultFileMB); err != nil {
		response.Error(c, err)
		return
	}
	if body.Priority == "" {
		body.Priority = domain.PriorityNormal
	}

	req := orchestrator.PipelineRequest{
		JobID:           uuid.NewString(),
		Priority:        body.Priority,
		StorageOverride: body.Storage,
		Files:           body.Files,
	}

	result, err := h.Orchestrator.Dispatch(c.Request.Context(), req, sync)
	if err != nil {
		response.Error(c, apierr.TaskFailed(err))
		return
	}
	if !sync {
		response.Accepted(c, req.JobID)
		return
	}
	response.OK(c, gin.H{"task_id": req.JobID, "results": result.Conversion.Results})
}
