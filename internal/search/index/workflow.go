package index

import (
	"time"

	"go.temporal.io/sdk/workflow"
)

// Workflow is a thin dispatch vehicle around ExecuteIndexOperation, needed
// because a Temporal client can only start workflows, never bare
// activities (the same constraint internal/enrich.Workflow works around).
func Workflow(ctx workflow.Context, req Request) (Result, error) {
	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueESIndex,
		StartToCloseTimeout: 5 * time.Minute,
	})
	var result Result
	err := workflow.ExecuteActivity(activityCtx, ActivityExecuteOp, req).Get(activityCtx, &result)
	return result, err
}
