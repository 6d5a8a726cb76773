package orchestrator

import (
	"context"
	"fmt"
	"time"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Config carries the PIPELINE_* settings (spec.md §6).
type Config struct {
	ConversionTimeout time.Duration
	ProbeTimeout      time.Duration
	AsyncDefault      bool
}

func DefaultConfig() Config {
	return Config{
		ConversionTimeout: 30 * time.Minute,
		ProbeTimeout:      5 * time.Minute,
		AsyncDefault:      true,
	}
}

// Service is the orchestrator's entry point: sync/async dispatch of
// PipelineRequest onto Workflow.
type Service struct {
	cfg    Config
	client temporalsdkclient.Client
	log    *logger.Logger
}

func NewService(cfg Config, client temporalsdkclient.Client, log *logger.Logger) *Service {
	return &Service{cfg: cfg, client: client, log: log.With("component", "orchestrator")}
}

// Dispatch starts the workflow for req, using req.JobID as the workflow
// id. In async mode it returns immediately with a nil result; in sync mode it blocks on the workflow
// result with a bounded total timeout of conversion_timeout+probe_timeout,
// returning a server error (without cancelling the in-flight workflow) on
// timeout (spec.md §4.E "Sync vs. async").
func (s *Service) Dispatch(ctx context.Context, req PipelineRequest, async bool) (*PipelineResult, error) {
	options := temporalsdkclient.StartWorkflowOptions{
		ID:        req.JobID,
		TaskQueue: QueuePipeline,
	}
	run, err := s.client.ExecuteWorkflow(ctx, options, Workflow, req)
	if err != nil {
		return nil, fmt.Errorf("start pipeline workflow: %w", err)
	}

	if async {
		return nil, nil
	}

	timeout := s.cfg.ConversionTimeout + s.cfg.ProbeTimeout
	boundedCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var result PipelineResult
	if err := run.Get(boundedCtx, &result); err != nil {
		if boundedCtx.Err() != nil {
			return nil, fmt.Errorf("pipeline %s timed out after %s; result still discoverable by job id: %w", req.JobID, timeout, err)
		}
		return nil, fmt.Errorf("pipeline %s failed: %w", req.JobID, err)
	}
	return &result, nil
}

// JobID discovers the result of a previously dispatched async job.
func (s *Service) JobID(ctx context.Context, jobID string) (*PipelineResult, error) {
	run := s.client.GetWorkflow(ctx, jobID, "")
	var result PipelineResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("pipeline %s not yet complete or failed: %w", jobID, err)
	}
	return &result, nil
}
