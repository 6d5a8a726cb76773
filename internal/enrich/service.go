package enrich

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Service dispatches EnrichManifestWorkflow, mirroring
// internal/orchestrator.Service's Dispatch/JobID shape.
type Service struct {
	client temporalsdkclient.Client
	log    *logger.Logger
}

func NewService(client temporalsdkclient.Client, log *logger.Logger) *Service {
	return &Service{client: client, log: log.With("component", "enrich_service")}
}

func (s *Service) Dispatch(ctx context.Context, req EnrichRequest) (string, error) {
	options := temporalsdkclient.StartWorkflowOptions{
		ID:        req.TaskID,
		TaskQueue: QueueMeta,
	}
	if _, err := s.client.ExecuteWorkflow(ctx, options, Workflow, req); err != nil {
		return "", fmt.Errorf("start enrich manifest workflow: %w", err)
	}
	return req.TaskID, nil
}

func (s *Service) TaskID(ctx context.Context, taskID string) (*EnrichResult, error) {
	run := s.client.GetWorkflow(ctx, taskID, "")
	var result EnrichResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("enrich task %s not yet complete or failed: %w", taskID, err)
	}
	return &result, nil
}
