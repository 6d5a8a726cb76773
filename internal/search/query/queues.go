package query

// QueueESSearch is the Search Dispatcher's task queue (spec.md §5);
// string-identical to internal/orchestrator.QueueESSearch but declared
// independently, matching internal/search/index's QueueESIndex pattern.
const QueueESSearch = "es_search"

const (
	WorkflowDispatchQuery = "DispatchQueryWorkflow"
	ActivityDispatchQuery = "DispatchQuery"
)
