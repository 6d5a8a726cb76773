package enrich

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

// Runner starts the meta queue's single worker, mirroring
// internal/orchestrator.Runner's shape narrowed to one queue.
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
	return &Runner{client: client, activities: activities, concurrency: concurrency, log: log.With("component", "enrich_worker")}
}

func (r *Runner) Start(ctx context.Context) error {
	w := worker.New(r.client, QueueMeta, worker.Options{
		MaxConcurrentActivityExecutionSize:     r.concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: r.concurrency,
	})
	w.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowEnrichManifest})
	w.RegisterActivityWithOptions(r.activities.EnrichManifest, activity.RegisterOptions{Name: ActivityEnrichManifest})

	if err := w.Start(); err != nil {
		return fmt.Errorf("start enrich worker: %w", err)
	}

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	r.log.Info("enrich worker started", "queue", QueueMeta, "started_at", time.Now().UTC().Format(time.RFC3339))
	return nil
}
