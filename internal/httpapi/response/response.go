// Package response is the Conversion/Pipeline/Video APIs' shared JSON
// envelope, carrying a bilingual zh_message and standardized error code on
// every client-facing failure.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shark8848/knowledge-transformer/internal/platform/apierr"
)

// ErrorBody is the standard failure shape: {status, error_code,
// error_status, message, zh_message}.
type ErrorBody struct {
	Status      string `json:"status"`
	ErrorCode   string `json:"error_code"`
	ErrorStatus int    `json:"error_status"`
	Message     string `json:"message"`
	ZhMessage   string `json:"zh_message,omitempty"`
}

// Error renders any error as the standardized failure envelope. Errors
// that carry an *apierr.Error use its status/code/zh_message; anything
// else is treated as an unclassified 500.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "ERR_TASK_FAILED"
	zh := ""
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}

	var apiErr *apierr.Error
	if e, ok := err.(*apierr.Error); ok {
		apiErr = e
	}
	if apiErr != nil {
		status = apiErr.Status
		code = string(apiErr.Code)
		zh = apiErr.ZhMessage()
	}

	c.JSON(status, ErrorBody{
		Status:      "failure",
		ErrorCode:   code,
		ErrorStatus: status,
		Message:     msg,
		ZhMessage:   zh,
	})
}

// OK renders a 200 success envelope.
func OK(c *gin.Context, payload gin.H) {
	payload["status"] = "success"
	c.JSON(http.StatusOK, payload)
}

// Accepted renders a 202 async-dispatch envelope.
func Accepted(c *gin.Context, taskID string) {
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "task_id": taskID})
}
