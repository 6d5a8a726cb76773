package query

import (
	"time"

	"go.temporal.io/sdk/workflow"
)

// Workflow wraps DispatchQuery the way internal/search/index.Workflow wraps
// ExecuteIndexOperation, since Temporal clients cannot start bare
// activities.
func Workflow(ctx workflow.Context, req Request) (Result, error) {
	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueESSearch,
		StartToCloseTimeout: time.Minute,
	})
	var result Result
	err := workflow.ExecuteActivity(activityCtx, ActivityDispatchQuery, req).Get(activityCtx, &result)
	return result, err
}
