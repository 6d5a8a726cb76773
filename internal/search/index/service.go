package index

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Service dispatches IndexOperationWorkflow, mirroring
// internal/enrich.Service's Dispatch/TaskID shape.
type Service struct {
	client temporalsdkclient.Client
	log    *logger.Logger
}

func NewService(client temporalsdkclient.Client, log *logger.Logger) *Service {
	return &Service{client: client, log: log.With("component", "index_service")}
}

func (s *Service) Dispatch(ctx context.Context, req Request) (string, error) {
	options := temporalsdkclient.StartWorkflowOptions{
		ID:        req.TaskID,
		TaskQueue: QueueESIndex,
	}
	if _, err := s.client.ExecuteWorkflow(ctx, options, Workflow, req); err != nil {
		return "", fmt.Errorf("start index operation workflow: %w", err)
	}
	return req.TaskID, nil
}

func (s *Service) TaskID(ctx context.Context, taskID string) (*Result, error) {
	run := s.client.GetWorkflow(ctx, taskID, "")
	var result Result
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("index task %s not yet complete or failed: %w", taskID, err)
	}
	return &result, nil
}
