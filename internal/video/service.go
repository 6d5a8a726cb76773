package video

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Service is the video pipeline's entry point, serving POST /video/slice's
// 202-accepted contract (spec.md §6). Modeled on
// internal/orchestrator.Service, simplified to always-async since the spec
// gives this endpoint no sync mode.
type Service struct {
	client temporalsdkclient.Client
	log    *logger.Logger
}

func NewService(client temporalsdkclient.Client, log *logger.Logger) *Service {
	return &Service{client: client, log: log.With("component", "video_service")}
}

// Dispatch starts SliceVideoWorkflow and returns immediately with the job
// id; the caller polls JobID for the result.
func (s *Service) Dispatch(ctx context.Context, req SliceRequest) (string, error) {
	options := temporalsdkclient.StartWorkflowOptions{
		ID:        req.JobID,
		TaskQueue: QueueVideo,
	}
	if _, err := s.client.ExecuteWorkflow(ctx, options, Workflow, req); err != nil {
		return "", fmt.Errorf("start video slice workflow: %w", err)
	}
	return req.JobID, nil
}

// JobID discovers the result of a previously dispatched slice job.
func (s *Service) JobID(ctx context.Context, jobID string) (*SliceResult, error) {
	run := s.client.GetWorkflow(ctx, jobID, "")
	var result SliceResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("video slice job %s not yet complete or failed: %w", jobID, err)
	}
	return &result, nil
}
