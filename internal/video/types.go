package video

import "github.com/shark8848/knowledge-transformer/internal/domain"

// SliceRequest is the video pipeline's entry payload (spec.md §4.F,
// §6 "POST /video/slice").
type SliceRequest struct {
	JobID           string                  `json:"job_id"`
	DocumentID      string                  `json:"document_id"`
	KBID            string                  `json:"kb_id"`
	KBType          string                  `json:"kb_type"`
	Bucket          string                  `json:"bucket,omitempty"`
	ObjectKey       string                  `json:"object_key"`
	StorageOverride *domain.StorageOverride `json:"storage_override,omitempty"`
}

// SliceResult is the manifest-building outcome, discoverable by job id.
type SliceResult struct {
	JobID        string          `json:"job_id"`
	ManifestKey  string          `json:"manifest_key"`
	ManifestURL  string          `json:"manifest_url,omitempty"`
	ThumbnailKey string          `json:"thumbnail_key,omitempty"`
	Manifest     domain.Manifest `json:"manifest"`
}

// segmentArtifacts is what ProbeAndSegment hands back per segment: the
// orchestrator-side stages (materialize, probe, segment, slice, extract
// keyframes), which fail the whole job on error except where
// ProbeAndSegment falls back (duration probe, shot detection, keyframe
// upload).
// Only object keys/URLs cross the activity boundary — TranscribeSlice and
// CaptionFrame re-materialize from object storage, the same handoff
// discipline internal/orchestrator uses between its own queues.
type segmentArtifacts struct {
	Segment       domain.Segment
	VideoSliceKey string
	VideoSliceURL string
	AudioSliceKey string
	AudioSliceURL string
	FrameKeys     []string
	FrameURLs     []string
	Timestamps    []float64
}

// ProbeAndSegmentOutput is ProbeAndSegment's full result.
type ProbeAndSegmentOutput struct {
	TotalDuration float64
	Segments      []segmentArtifacts
}
