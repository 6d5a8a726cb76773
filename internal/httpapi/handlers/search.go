package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/httpapi/response"
	"github.com/shark8848/knowledge-transformer/internal/platform/apierr"
	"github.com/shark8848/knowledge-transformer/internal/search/query"
)

// SearchHandler serves POST /search, submitting a text, vector, or hybrid
// query as a task on the search queue; GET /search/:task_id polls it down
// to {PENDING, SUCCESS, FAILURE}.
type SearchHandler struct {
	Query *query.Service
}

func NewSearchHandler(svc *query.Service) *SearchHandler {
	return &SearchHandler{Query: svc}
}

type searchRequestBody struct {
	Index string `json:"index"`
	domain.SearchRequest
}

func (h *SearchHandler) Dispatch(c *gin.Context) {
	var body searchRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apierr.FormatUnsupported(err))
		return
	}
	if body.Index == "" {
		response.Error(c, apierr.FormatUnsupported(fmt.Errorf("index is required")))
		return
	}
	switch body.Kind {
	case domain.QueryText, domain.QueryVector, domain.QueryHybrid:
	default:
		response.Error(c, apierr.FormatUnsupported(fmt.Errorf("unsupported query kind %q", body.Kind)))
		return
	}

	req := query.Request{
		TaskID:        uuid.NewString(),
		Index:         body.Index,
		SearchRequest: body.SearchRequest,
	}

	taskID, err := h.Query.Dispatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, apierr.TaskFailed(err))
		return
	}
	response.Accepted(c, taskID)
}

func (h *SearchHandler) TaskStatus(c *gin.Context) {
	taskID := c.Param("task_id")
	state, result, err := h.Query.TaskState(c.Request.Context(), taskID)
	if err != nil {
		response.Error(c, apierr.TaskFailed(err))
		return
	}
	payload := gin.H{"task_id": taskID, "state": state}
	if result != nil {
		payload["result"] = result
	}
	response.OK(c, payload)
}
