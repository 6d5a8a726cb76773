package orchestrator

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

// Runner starts one Temporal worker per task queue this process serves,
// modeled on the teacher's internal/temporalx/temporalworker.Runner
// (start-with-retry, per-queue worker.New), generalized from one queue to
// the conversion/pipeline/probe queues spec.md §4.E requires a single
// process be able to serve.
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
	return &Runner{client: client, activities: activities, concurrency: concurrency, log: log.With("component", "orchestrator_worker")}
}

// Start launches workers for the queues this process owns. Pass false for a
// queue this process doesn't serve. ctx cancellation stops every started
// worker.
func (r *Runner) Start(ctx context.Context, serveConversion, servePipeline, serveProbe bool) error {
	var workers []worker.Worker

	if servePipeline {
		w := worker.New(r.client, QueuePipeline, worker.Options{
			MaxConcurrentActivityExecutionSize:     r.concurrency,
			MaxConcurrentWorkflowTaskExecutionSize: r.concurrency,
		})
		w.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowConversionExtractAndProbe})
		w.RegisterActivityWithOptions(r.activities.ExtractAndProbe, activity.RegisterOptions{Name: ActivityExtractAndProbe})
		workers = append(workers, w)
	}
	if serveConversion {
		w := worker.New(r.client, QueueConversion, worker.Options{
			MaxConcurrentActivityExecutionSize: r.concurrency,
		})
		w.RegisterActivityWithOptions(r.activities.HandleConversionBatch, activity.RegisterOptions{Name: ActivityHandleConversionBatch})
		workers = append(workers, w)
	}
	if serveProbe {
		w := worker.New(r.client, QueueProbe, worker.Options{
			MaxConcurrentActivityExecutionSize: r.concurrency,
		})
		w.RegisterActivityWithOptions(r.activities.ExtractSignals, activity.RegisterOptions{Name: ActivityExtractSignals})
		w.RegisterActivityWithOptions(r.activities.RecommendStrategy, activity.RegisterOptions{Name: ActivityRecommendStrategy})
		workers = append(workers, w)
	}

	for _, w := range workers {
		if err := w.Start(); err != nil {
			for _, started := range workers {
				started.Stop()
			}
			return fmt.Errorf("start orchestrator worker: %w", err)
		}
	}

	go func() {
		<-ctx.Done()
		for _, w := range workers {
			w.Stop()
		}
	}()

	r.log.Info("orchestrator workers started", "conversion", serveConversion, "pipeline", servePipeline, "probe", serveProbe, "started_at", time.Now().UTC().Format(time.RFC3339))
	return nil
}
