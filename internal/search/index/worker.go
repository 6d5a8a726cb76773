package index

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

// Runner starts the es_index queue's single worker, mirroring
// internal/enrich.Runner's shape.
type Runner struct {
	client      temporalsdkclient.Client
	activities  *Activities
	concurrency int
	log         *logger.Logger
}

func NewRunner(client temporalsdkclient.Client, activities *Activities, concurrency int, log *logger.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 4
	}
	return &Runner{client: client, activities: activities, concurrency: concurrency, log: log.With("component", "index_worker")}
}

func (r *Runner) Start(ctx context.Context) error {
	w := worker.New(r.client, QueueESIndex, worker.Options{
		MaxConcurrentActivityExecutionSize:     r.concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: r.concurrency,
	})
	w.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowIndexOperation})
	w.RegisterActivityWithOptions(r.activities.ExecuteIndexOperation, activity.RegisterOptions{Name: ActivityExecuteOp})

	if err := w.Start(); err != nil {
		return fmt.Errorf("start index worker: %w", err)
	}

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	r.log.Info("index worker started", "queue", QueueESIndex, "started_at", time.Now().UTC().Format(time.RFC3339))
	return nil
}
