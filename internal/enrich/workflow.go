package enrich

import (
	"time"

	"go.temporal.io/sdk/workflow"
)

// Workflow wraps EnrichManifest in the minimal single-activity shape
// Temporal requires for anything a client dispatches directly — the meta
// queue has exactly one step, so there's no multi-stage chain to model.
func Workflow(ctx workflow.Context, req EnrichRequest) (EnrichResult, error) {
	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueMeta,
		StartToCloseTimeout: 15 * time.Minute,
	})
	var result EnrichResult
	err := workflow.ExecuteActivity(activityCtx, ActivityEnrichManifest, req).Get(activityCtx, &result)
	return result, err
}
