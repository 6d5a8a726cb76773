package index

// QueueESIndex is the Index Control Plane's task queue (spec.md §5);
// string-identical to internal/orchestrator.QueueESIndex but declared
// independently so this package carries no import-time dependency on
// internal/orchestrator.
const QueueESIndex = "es_index"

const (
	WorkflowIndexOperation = "IndexOperationWorkflow"
	ActivityExecuteOp      = "ExecuteIndexOperation"
)
