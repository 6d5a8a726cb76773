package query

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Service dispatches DispatchQueryWorkflow and translates Temporal run
// states to spec.md §4.I's {PENDING, SUCCESS, FAILURE} polling states.
type Service struct {
	client temporalsdkclient.Client
	log    *logger.Logger
}

func NewService(client temporalsdkclient.Client, log *logger.Logger) *Service {
	return &Service{client: client, log: log.With("component", "search_service")}
}

func (s *Service) Dispatch(ctx context.Context, req Request) (string, error) {
	options := temporalsdkclient.StartWorkflowOptions{
		ID:        req.TaskID,
		TaskQueue: QueueESSearch,
	}
	if _, err := s.client.ExecuteWorkflow(ctx, options, Workflow, req); err != nil {
		return "", fmt.Errorf("start dispatch query workflow: %w", err)
	}
	return req.TaskID, nil
}

// TaskState polls a previously-dispatched query, returning domain.TaskPending
// while the workflow run is still open.
func (s *Service) TaskState(ctx context.Context, taskID string) (domain.TaskState, *Result, error) {
	desc, err := s.client.DescribeWorkflowExecution(ctx, taskID, "")
	if err != nil {
		return domain.TaskFailure, nil, fmt.Errorf("describe search task %s: %w", taskID, err)
	}
	if desc.GetWorkflowExecutionInfo().GetStatus() == enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING {
		return domain.TaskPending, nil, nil
	}
	run := s.client.GetWorkflow(ctx, taskID, "")
	var result Result
	err = run.Get(ctx, &result)
	if err == nil {
		return domain.TaskSuccess, &result, nil
	}
	if ctx.Err() != nil {
		return domain.TaskPending, nil, nil
	}
	return domain.TaskFailure, nil, fmt.Errorf("search task %s failed: %w", taskID, err)
}
