// Package handlers implements the Conversion/Pipeline/Video/Search HTTP
// surface: one struct per concern, constructed with its collaborators,
// methods registered as gin.HandlerFunc.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/shark8848/knowledge-transformer/internal/objectstore"
	"github.com/shark8848/knowledge-transformer/internal/resultstore"
)

// HealthHandler serves GET /monitor/health: dependency probe results for
// redis, object storage, and the Temporal task-queue backend.
type HealthHandler struct {
	Redis    *resultstore.Store
	S3       *objectstore.S3Store
	Temporal temporalsdkclient.Client
}

func NewHealthHandler(redis *resultstore.Store, s3 *objectstore.S3Store, temporal temporalsdkclient.Client) *HealthHandler {
	return &HealthHandler{Redis: redis, S3: s3, Temporal: temporal}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deps := gin.H{}
	ok := true

	if err := h.Redis.Ping(ctx); err != nil {
		deps["redis"] = gin.H{"ok": false, "error": err.Error()}
		ok = false
	} else {
		deps["redis"] = gin.H{"ok": true}
	}

	if err := h.S3.Ping(ctx); err != nil {
		deps["minio"] = gin.H{"ok": false, "error": err.Error()}
		ok = false
	} else {
		deps["minio"] = gin.H{"ok": true}
	}

	if _, err := h.Temporal.CheckHealth(ctx, &temporalsdkclient.CheckHealthRequest{}); err != nil {
		deps["celery-equivalent"] = gin.H{"ok": false, "error": err.Error()}
		ok = false
	} else {
		deps["celery-equivalent"] = gin.H{"ok": true}
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"ok": ok, "dependencies": deps})
}
