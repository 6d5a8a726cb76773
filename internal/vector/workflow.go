package vector

import (
	"time"

	"go.temporal.io/sdk/workflow"
)

// Workflow is a thin dispatch vehicle around ExecuteVectorOperation, needed
// because a Temporal client can only start workflows, never bare
// activities (the same constraint internal/search/index.Workflow works
// around).
func Workflow(ctx workflow.Context, req Request) (Result, error) {
	activityCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueVector,
		StartToCloseTimeout: 2 * time.Minute,
	})
	var result Result
	err := workflow.ExecuteActivity(activityCtx, ActivityExecuteOp, req).Get(activityCtx, &result)
	return result, err
}
