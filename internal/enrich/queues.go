package enrich

// Task queue name and activity/workflow names (spec.md §5 "meta" queue).
const (
	QueueMeta = "meta"

	WorkflowEnrichManifest = "EnrichManifestWorkflow"
	ActivityEnrichManifest = "EnrichManifest"
)
