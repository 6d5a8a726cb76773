package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/httpapi/response"
	"github.com/shark8848/knowledge-transformer/internal/platform/apierr"
	"github.com/shark8848/knowledge-transformer/internal/video"
)

// VideoHandler serves POST /video/slice and its job-id poll.
type VideoHandler struct {
	Video *video.Service
}

func NewVideoHandler(svc *video.Service) *VideoHandler {
	return &VideoHandler{Video: svc}
}

type sliceRequestBody struct {
	DocumentID      string                  `json:"document_id"`
	KBID            string                  `json:"kb_id"`
	KBType          string                  `json:"kb_type"`
	Bucket          string                  `json:"bucket,omitempty"`
	ObjectKey       string                  `json:"object_key"`
	Storage         *domain.StorageOverride `json:"storage,omitempty"`
}

func (h *VideoHandler) Slice(c *gin.Context) {
	var body sliceRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apierr.FormatUnsupported(err))
		return
	}
	if body.ObjectKey == "" {
		response.Error(c, apierr.FormatUnsupported(fmt.Errorf("object_key is required")))
		return
	}

	req := video.SliceRequest{
		JobID:           uuid.NewString(),
		DocumentID:      body.DocumentID,
		KBID:            body.KBID,
		KBType:          body.KBType,
		Bucket:          body.Bucket,
		ObjectKey:       body.ObjectKey,
		StorageOverride: body.Storage,
	}

	jobID, err := h.Video.Dispatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, apierr.TaskFailed(err))
		return
	}
	response.Accepted(c, jobID)
}

func (h *VideoHandler) JobStatus(c *gin.Context) {
	jobID := c.Param("job_id")
	result, err := h.Video.JobID(c.Request.Context(), jobID)
	if err != nil {
		response.OK(c, gin.H{"task_id": jobID, "state": "PENDING"})
		return
	}
	response.OK(c, gin.H{"task_id": jobID, "state": "SUCCESS", "result": result})
}
