package video

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// Workflow implements SliceVideoWorkflow (spec.md §4.F): ProbeAndSegment
// runs on the video queue, then every audio slice's transcription is
// dispatched onto video_asr and collected one at a time (stage 7 is
// literally sequential, not a fan-out), then every frame's captioning is
// dispatched onto video_vision all at once and collected afterward (stage
// 8's "dispatch all, then collect" is the only way to get real
// parallelism), then AssembleManifest runs on the video queue. Modeled on
// internal/orchestrator.Workflow's activity-options-per-stage shape,
// generalized from a fixed three-stage chain to per-segment/per-frame fan
// out across two additional queues.
func Workflow(ctx workflow.Context, req SliceRequest) (SliceResult, error) {
	probeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueVideo,
		StartToCloseTimeout: 30 * time.Minute,
	})
	var probed ProbeAndSegmentOutput
	if err := workflow.ExecuteActivity(probeCtx, ActivityProbeAndSegment, req).Get(probeCtx, &probed); err != nil {
		return SliceResult{}, fmt.Errorf("probe and segment: %w", err)
	}

	asrCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueVideoASR,
		StartToCloseTimeout: 5 * time.Minute,
	})
	transcripts := make([]domain.ASRSegment, len(probed.Segments))
	for i, seg := range probed.Segments {
		in := TranscribeSliceInput{
			StorageOverride: req.StorageOverride,
			Bucket:          req.Bucket,
			AudioSliceKey:   seg.AudioSliceKey,
			Segment:         seg.Segment,
		}
		var out domain.ASRSegment
		if err := workflow.ExecuteActivity(asrCtx, ActivityTranscribeSlice, in).Get(asrCtx, &out); err != nil {
			// An external-worker ASR failure degrades to an empty
			// transcript inside the activity itself; an error here means
			// the activity/queue infrastructure failed, which is fatal.
			return SliceResult{}, fmt.Errorf("transcribe slice %d: %w", i, err)
		}
		transcripts[i] = out
	}

	visionCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueVideoVision,
		StartToCloseTimeout: 5 * time.Minute,
	})
	type frameFuture struct {
		segIndex, frameIndex int
		future               workflow.Future
	}
	frameCaptionMax := DefaultConfig().FrameCaptionMax

	var futures []frameFuture
	for si, seg := range probed.Segments {
		frames := selectCaptionSet(seg, frameCaptionMax)
		for _, fi := range frames {
			in := CaptionFrameInput{
				StorageOverride: req.StorageOverride,
				Bucket:          req.Bucket,
				FrameKey:        seg.FrameKeys[fi],
				FrameURL:        seg.FrameURLs[fi],
				Timestamp:       seg.Timestamps[fi],
			}
			futures = append(futures, frameFuture{
				segIndex:   si,
				frameIndex: fi,
				future:     workflow.ExecuteActivity(visionCtx, ActivityCaptionFrame, in),
			})
		}
	}

	keyframesBySeg := make([][]domain.Keyframe, len(probed.Segments))
	for _, ff := range futures {
		var kf domain.Keyframe
		if err := ff.future.Get(visionCtx, &kf); err != nil {
			return SliceResult{}, fmt.Errorf("caption frame seg=%d frame=%d: %w", ff.segIndex, ff.frameIndex, err)
		}
		keyframesBySeg[ff.segIndex] = append(keyframesBySeg[ff.segIndex], kf)
	}

	chunks := make([]ChunkInputs, len(probed.Segments))
	for i, seg := range probed.Segments {
		chunks[i] = ChunkInputs{
			Segment:    seg.Segment,
			AudioURL:   seg.AudioSliceURL,
			VideoURL:   seg.VideoSliceURL,
			Transcript: transcripts[i],
			Keyframes:  keyframesBySeg[i],
		}
	}

	manifestCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueVideo,
		StartToCloseTimeout: 5 * time.Minute,
	})
	assembleIn := AssembleManifestInput{
		JobID:           req.JobID,
		DocumentID:      req.DocumentID,
		KBID:            req.KBID,
		KBType:          req.KBType,
		Bucket:          req.Bucket,
		StorageOverride: req.StorageOverride,
		Chunks:          chunks,
	}
	var result SliceResult
	if err := workflow.ExecuteActivity(manifestCtx, ActivityAssembleManifest, assembleIn).Get(manifestCtx, &result); err != nil {
		return SliceResult{}, fmt.Errorf("assemble manifest: %w", err)
	}
	return result, nil
}

// selectCaptionSet applies the frame_caption_max eviction policy to one
// segment's extracted frame indices, in the same even-pick spirit as
// SelectFramesForCaptioning but operating on indices into the segment's
// already-uploaded FrameKeys/FrameURLs/Timestamps rather than domain.Keyframe
// values (which don't exist yet at this point in the pipeline).
func selectCaptionSet(seg segmentArtifacts, frameCaptionMax int) []int {
	total := len(seg.FrameKeys)
	if total == 0 {
		return nil
	}
	if frameCaptionMax <= 0 || total <= frameCaptionMax {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	return evenPickIndices(total, frameCaptionMax)
}
