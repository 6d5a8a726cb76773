package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shark8848/knowledge-transformer/internal/objectstore"
	"github.com/shark8848/knowledge-transformer/internal/orchestrator"
	"github.com/shark8848/knowledge-transformer/internal/platform/apierr"

	"github.com/shark8848/knowledge-transformer/internal/httpapi/response"
)

// PipelineHandler serves the Pipeline API: an upload endpoint that stages a
// file for later reference by object key, and a recommend endpoint that
// always runs the orchestrator synchronously and surfaces its full
// {conversion,profile,recommendation} result.
type PipelineHandler struct {
	S3           *objectstore.S3Store
	Bucket       string
	Orchestrator *orchestrator.Service
}

func NewPipelineHandler(s3 *objectstore.S3Store, bucket string, svc *orchestrator.Service) *PipelineHandler {
	return &PipelineHandler{S3: s3, Bucket: bucket, Orchestrator: svc}
}

func (h *PipelineHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apierr.FormatUnsupported(fmt.Errorf("multipart field %q is required: %w", "file", err)))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, apierr.TaskFailed(err))
		return
	}
	defer f.Close()

	key := fmt.Sprintf("uploads/%s_%s", uuid.NewString(), fileHeader.Filename)
	if err := h.S3.PutReader(c.Request.Context(), h.Bucket, key, f, fileHeader.Size, fileHeader.Header.Get("Content-Type")); err != nil {
		response.Error(c, apierr.TaskFailed(err))
		return
	}

	response.OK(c, gin.H{"bucket": h.Bucket, "object_key": key})
}

func (h *PipelineHandler) Recommend(c *gin.Context) {
	var body convertRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apierr.FormatUnsupported(err))
		return
	}
	if err := validateConvertRequest(body.Files, true, 1, 0, 0); err != nil {
		response.Error(c, err)
		return
	}

	req := orchestrator.PipelineRequest{
		JobID:           uuid.NewString(),
		Priority:        body.Priority,
		StorageOverride: body.Storage,
		Files:           body.Files,
		EmitCandidates:  true,
	}

	result, err := h.Orchestrator.Dispatch(c.Request.Context(), req, true)
	if err != nil {
		response.Error(c, apierr.TaskFailed(err))
		return
	}

	response.OK(c, gin.H{
		"task_id":        req.JobID,
		"conversion":     result.Conversion,
		"profile":        result.Profile,
		"recommendation": result.Recommendation,
	})
}
