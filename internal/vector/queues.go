package vector

// QueueVector is the embed/rerank service's task queue (spec.md §5);
// string-identical to internal/orchestrator.QueueVector but declared
// independently so this package carries no import-time dependency on
// internal/orchestrator.
const QueueVector = "vector"

const (
	WorkflowVectorOperation = "VectorOperationWorkflow"
	ActivityExecuteOp       = "ExecuteVectorOperation"
)
