// Package video implements the Video Slicing Pipeline (spec.md §4.F):
// materialize -> probe duration -> segment -> extract full audio -> slice
// video/audio per segment -> extract keyframes -> ASR fan-out -> vision
// fan-out -> assemble manifest. Modeled on the teacher's
// internal/ingestion/pipeline/video.go handleVideo method and
// internal/platform/localmedia/tools.go's ffmpeg wrappers, restructured
// into the spec's required dispatch-all-then-collect fan-out shape and a
// three-queue (video, video_asr, video_vision) Temporal layout mirroring
// internal/orchestrator's.
package video

// Task queue names (spec.md §5); string-identical to orchestrator's
// QueueVideo/QueueVideoASR/QueueVideoVision but declared independently so
// this package has no import-time dependency on internal/orchestrator.
const (
	QueueVideo       = "video"
	QueueVideoASR    = "video_asr"
	QueueVideoVision = "video_vision"
)

const (
	WorkflowSliceVideo = "SliceVideoWorkflow"

	// ProbeAndSegment covers spec.md §4.F stages 1-6 (materialize through
	// keyframe extraction) as one orchestrator-side activity — none of
	// those stages crosses a queue boundary on its own, so they share one
	// activity rather than four.
	ActivityProbeAndSegment  = "ProbeAndSegment"
	ActivityTranscribeSlice  = "TranscribeSlice"
	ActivityCaptionFrame     = "CaptionFrame"
	ActivityAssembleManifest = "AssembleManifest"
)
