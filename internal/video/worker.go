package video

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
// mirroring internal/orchestrator.Runner's per-queue worker.New shape,
// generalized to this package's three video queues.
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
	return &Runner{client: client, activities: activities, concurrency: concurrency, log: log.With("component", "video_worker")}
}

// Start launches workers for the queues this process owns. Pass false for
// a queue this process doesn't serve. ctx cancellation stops every
// started worker.
func (r *Runner) Start(ctx context.Context, serveVideo, serveASR, serveVision bool) error {
	var workers []worker.Worker

	if serveVideo {
		w := worker.New(r.client, QueueVideo, worker.Options{
			MaxConcurrentActivityExecutionSize:     r.concurrency,
			MaxConcurrentWorkflowTaskExecutionSize: r.concurrency,
		})
		w.RegisterWorkflowWithOptions(Workflow, workflow.RegisterOptions{Name: WorkflowSliceVideo})
		w.RegisterActivityWithOptions(r.activities.ProbeAndSegment, activity.RegisterOptions{Name: ActivityProbeAndSegment})
		w.RegisterActivityWithOptions(r.activities.AssembleManifest, activity.RegisterOptions{Name: ActivityAssembleManifest})
		workers = append(workers, w)
	}
	if serveASR {
		w := worker.New(r.client, QueueVideoASR, worker.Options{
			MaxConcurrentActivityExecutionSize: r.concurrency,
		})
		w.RegisterActivityWithOptions(r.activities.TranscribeSlice, activity.RegisterOptions{Name: ActivityTranscribeSlice})
		workers = append(workers, w)
	}
	if serveVision {
		w := worker.New(r.client, QueueVideoVision, worker.Options{
			MaxConcurrentActivityExecutionSize: r.concurrency,
		})
		w.RegisterActivityWithOptions(r.activities.CaptionFrame, activity.RegisterOptions{Name: ActivityCaptionFrame})
		workers = append(workers, w)
	}

	for _, w := range workers {
		if err := w.Start(); err != nil {
			for _, started := range workers {
				started.Stop()
			}
			return fmt.Errorf("start video worker: %w", err)
		}
	}

	go func() {
		<-ctx.Done()
		for _, w := range workers {
			w.Stop()
		}
	}()

	r.log.Info("video workers started", "video", serveVideo, "asr", serveASR, "vision", serveVision, "started_at", time.Now().UTC().Format(time.RFC3339))
	return nil
}
