package query

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Runner starts the es_search queue's single worker, mirroring
// internal/search/index.Runner's shape.
type Runner struct {
	client      temporalsdkclient.Client
	activities  *Activities
	concurrency int
	log         *logger.Logger
}

func NewRunner(client temporalsdkclient.Client, activities *Activities, concurrency int, log *logger.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 8
	}
	return &Runner{client: client, activities: activities, concurrency: concurrency, log: log.With("component", "search_worker")}
}

func (r *Runner) Start(ctx context.Context) error {
	w := worker.New(r.client, QueueESSearch, worker.Options{
		MaxConcurrentActivityExecutionSize:     r.concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: r.concurrency,
	})
	w.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowDispatchQuery})
	w.RegisterActivityWithOptions(r.activities.DispatchQuery, activity.RegisterOptions{Name: ActivityDispatchQuery})

	if err := w.Start(); err != nil {
		return fmt.Errorf("start search worker: %w", err)
	}

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	r.log.Info("search worker started", "queue", QueueESSearch, "started_at", time.Now().UTC().Format(time.RFC3339))
	return nil
}
