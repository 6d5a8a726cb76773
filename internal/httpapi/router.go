// Package httpapi assembles the Conversion/Pipeline/Video/Search HTTP
// surface: a RouterConfig of handlers, NewRouter/NewServer.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/shark8848/knowledge-transformer/internal/httpapi/handlers"
	"github.com/shark8848/knowledge-transformer/internal/httpapi/middleware"
	"github.com/shark8848/knowledge-transformer/internal/metrics"
	"github.com/shark8848/knowledge-transformer/internal/platform/appkey"
)

type RouterConfig struct {
	HealthHandler   *handlers.HealthHandler
	FormatsHandler  *handlers.FormatsHandler
	ConvertHandler  *handlers.ConvertHandler
	PipelineHandler *handlers.PipelineHandler
	VideoHandler    *handlers.VideoHandler
	SearchHandler   *handlers.SearchHandler

	Metrics *metrics.HTTP

	AppKeyValidator *appkey.Validator
	AuthHeaderAppid string
	AuthHeaderKey   string
	AuthRequired    bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", cfg.Metrics.Handler())
	}

	if cfg.HealthHandler != nil {
		r.GET("/monitor/health", cfg.HealthHandler.HealthCheck)
	}
	if cfg.FormatsHandler != nil {
		r.GET("/formats", cfg.FormatsHandler.ListFormats)
	}

	api := r.Group("/")
	api.Use(middleware.AppKeyAuth(cfg.AppKeyValidator, cfg.AuthHeaderAppid, cfg.AuthHeaderKey, cfg.AuthRequired))
	{
		if cfg.ConvertHandler != nil {
			api.POST("/convert", cfg.ConvertHandler.Convert)
		}
		if cfg.PipelineHandler != nil {
			api.POST("/api/v1/pipeline/upload", cfg.PipelineHandler.Upload)
			api.POST("/api/v1/pipeline/recommend", cfg.PipelineHandler.Recommend)
		}
		if cfg.VideoHandler != nil {
			api.POST("/video/slice", cfg.VideoHandler.Slice)
			api.GET("/video/slice/:job_id", cfg.VideoHandler.JobStatus)
		}
		if cfg.SearchHandler != nil {
			api.POST("/search", cfg.SearchHandler.Dispatch)
			api.GET("/search/:task_id", cfg.SearchHandler.TaskStatus)
		}
	}

	return r
}
