// Package orchestrator composes Converter(C)->Probe(D) chains across three
// distinct Temporal task queues and is the only component allowed to cross
// queues (spec.md §4.E). Modeled on the teacher's
// internal/temporalx/jobrun tick-loop workflow and
// internal/temporalx/temporalworker per-queue worker registration,
// generalized from one generic job-runner queue to the spec's named queues.
package orchestrator

// Task queue names, one pool per logical queue (spec.md §5).
const (
	QueueConversion   = "conversion"
	QueuePipeline     = "pipeline"
	QueueProbe        = "probe"
	QueueVideo        = "video"
	QueueVideoASR     = "video_asr"
	QueueVideoVision  = "video_vision"
	QueueMeta         = "meta"
	QueueVector       = "vector"
	QueueESIndex      = "es_index"
	QueueESSearch     = "es_search"
)

const (
	WorkflowConversionExtractAndProbe = "ConversionExtractAndProbeWorkflow"

	ActivityHandleConversionBatch = "HandleConversionBatch"
	ActivityExtractAndProbe       = "ExtractAndProbe"
	ActivityExtractSignals        = "ExtractSignals"
	ActivityRecommendStrategy     = "RecommendStrategy"
)
