package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shark8848/knowledge-transformer/internal/conversion"
	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/objectstore"
	"github.com/shark8848/knowledge-transformer/internal/platform/gcp"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Activities implements the named operations the video workflow dispatches
// across the video/video_asr/video_vision queues, mirroring
// internal/orchestrator.Activities' plain-struct-of-dependencies shape.
type Activities struct {
	GatewayFactory conversion.GatewayFactory
	Tools          Tools
	Shots          gcp.Video // optional; the only source of scene-cut timestamps
	Transcriber    Transcriber
	Captioner      Captioner
	OCR            OCR
	Config         Config
	Log            *logger.Logger
}

// ProbeAndSegment runs on QueueVideo: materialize, probe duration, segment,
// extract full audio, slice video+audio per segment, extract keyframes —
// spec.md §4.F stages 1-6. A failed duration probe falls back to
// 3·fixed_segment_seconds, failed shot detection falls back to fixed
// windows and a failed keyframe upload is skipped; any other error fails
// the whole job, since these stages run in the orchestrator, not an
// external worker.
func (a *Activities) ProbeAndSegment(ctx context.Context, req SliceRequest) (ProbeAndSegmentOutput, error) {
	gw, bucket, err := a.GatewayFactory.ForJob(ctx, req.StorageOverride)
	if err != nil {
		return ProbeAndSegmentOutput{}, fmt.Errorf("probe_and_segment: gateway: %w", err)
	}
	if req.Bucket != "" {
		bucket = req.Bucket
	}

	workDir, err := os.MkdirTemp("", "video-"+req.JobID+"-")
	if err != nil {
		return ProbeAndSegmentOutput{}, fmt.Errorf("probe_and_segment: workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	mediaPath, err := gw.Materialize(ctx, domain.FileSpec{ObjectKey: req.ObjectKey}, workDir, bucket)
	if err != nil {
		return ProbeAndSegmentOutput{}, fmt.Errorf("probe_and_segment: materialize: %w", err)
	}

	duration, err := a.Tools.ProbeDuration(ctx, mediaPath)
	if err != nil {
		a.Log.Warn("probe duration failed, using fixed_segment_seconds fallback", "error", err)
		duration = a.Config.fixedSegmentFallback()
	}

	cuts := a.shotCuts(ctx, req, duration)
	segments := BuildSegments(duration, cuts, a.Config)

	fullAudioPath := filepath.Join(workDir, "full_audio.m4a")
	if err := a.Tools.ExtractFullAudio(ctx, mediaPath, fullAudioPath); err != nil {
		return ProbeAndSegmentOutput{}, fmt.Errorf("probe_and_segment: extract full audio: %w", err)
	}

	out := ProbeAndSegmentOutput{TotalDuration: duration}
	for i, seg := range segments {
		art, err := a.sliceOneSegment(ctx, gw, bucket, req, workDir, mediaPath, i, seg)
		if err != nil {
			return ProbeAndSegmentOutput{}, fmt.Errorf("probe_and_segment: segment %d: %w", i, err)
		}
		out.Segments = append(out.Segments, art)
	}
	return out, nil
}

func (a *Activities) shotCuts(ctx context.Context, req SliceRequest, duration float64) []float64 {
	if a.Shots == nil {
		return nil
	}
	gcsURI := fmt.Sprintf("gs://%s/%s", req.Bucket, req.ObjectKey)
	res, err := a.Shots.AnnotateShots(ctx, gcsURI)
	if err != nil {
		a.Log.Warn("videointelligence shot detection failed; falling back to fixed windows", "error", err)
		return nil
	}
	cuts := make([]float64, 0, len(res.Shots))
	for _, s := range res.Shots {
		if s.End > 0 && s.End < duration {
			cuts = append(cuts, s.End)
		}
	}
	return cuts
}

func (a *Activities) sliceOneSegment(ctx context.Context, gw *objectstore.Gateway, bucket string, req SliceRequest, workDir, mediaPath string, index int, seg domain.Segment) (segmentArtifacts, error) {
	segDir := filepath.Join(workDir, fmt.Sprintf("seg_%03d", index))
	if err := os.MkdirAll(segDir, 0o755); err != nil {
		return segmentArtifacts{}, err
	}

	videoOut := filepath.Join(segDir, "video.mp4")
	if err := a.Tools.SliceSegment(ctx, mediaPath, videoOut, seg.Start, seg.End, "video"); err != nil {
		return segmentArtifacts{}, fmt.Errorf("slice video: %w", err)
	}
	audioOut := filepath.Join(segDir, "audio.m4a")
	if err := a.Tools.SliceSegment(ctx, mediaPath, audioOut, seg.Start, seg.End, "audio"); err != nil {
		return segmentArtifacts{}, fmt.Errorf("slice audio: %w", err)
	}
	frames, err := a.Tools.ExtractKeyframes(ctx, mediaPath, filepath.Join(segDir, "frames"), a.Config, seg.Start, seg.End)
	if err != nil {
		return segmentArtifacts{}, fmt.Errorf("extract keyframes: %w", err)
	}

	prefix := fmt.Sprintf("video/%s/seg_%03d", req.JobID, index)
	videoKey := prefix + "/video.mp4"
	videoResult, err := gw.Upload(ctx, bucket, videoKey, videoOut, "video/mp4", 0)
	if err != nil {
		return segmentArtifacts{}, fmt.Errorf("upload video slice: %w", err)
	}
	audioKey := prefix + "/audio.m4a"
	audioResult, err := gw.Upload(ctx, bucket, audioKey, audioOut, "audio/mp4", 0)
	if err != nil {
		return segmentArtifacts{}, fmt.Errorf("upload audio slice: %w", err)
	}

	art := segmentArtifacts{
		Segment:       seg,
		VideoSliceKey: videoResult.OutputObjectKey,
		VideoSliceURL: videoResult.DownloadURL,
		AudioSliceKey: audioResult.OutputObjectKey,
		AudioSliceURL: audioResult.DownloadURL,
	}
	for i, framePath := range frames {
		frameKey := fmt.Sprintf("%s/frame_%04d.jpg", prefix, i)
		frameResult, err := gw.Upload(ctx, bucket, frameKey, framePath, "image/jpeg", 0)
		if err != nil {
			a.Log.Warn("upload keyframe failed, skipping", "path", framePath, "error", err)
			continue
		}
		art.FrameKeys = append(art.FrameKeys, frameResult.OutputObjectKey)
		art.FrameURLs = append(art.FrameURLs, frameResult.DownloadURL)
		art.Timestamps = append(art.Timestamps, seg.Start+float64(i)/a.Config.SampleFPS)
	}
	return art, nil
}

// TranscribeSlice runs on QueueVideoASR: spec.md §4.F stage 7, one task per
// audio slice.
func (a *Activities) TranscribeSlice(ctx context.Context, in TranscribeSliceInput) (domain.ASRSegment, error) {
	gw, bucket, err := a.GatewayFactory.ForJob(ctx, in.StorageOverride)
	if err != nil {
		return domain.ASRSegment{}, fmt.Errorf("transcribe_slice: gateway: %w", err)
	}
	if in.Bucket != "" {
		bucket = in.Bucket
	}

	workDir, err := os.MkdirTemp("", "video-asr-")
	if err != nil {
		return domain.ASRSegment{}, fmt.Errorf("transcribe_slice: workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	localPath, err := gw.Materialize(ctx, domain.FileSpec{ObjectKey: in.AudioSliceKey}, workDir, bucket)
	if err != nil {
		a.Log.Warn("transcribe_slice: materialize failed, degrading to empty transcript", "key", in.AudioSliceKey, "error", err)
		return domain.ASRSegment{Start: in.Segment.Start, End: in.Segment.End}, nil
	}

	segs := TranscribeSlices(ctx, a.Transcriber, []string{localPath}, []domain.Segment{in.Segment}, a.Config, a.Log)
	return segs[0], nil
}

// TranscribeSliceInput carries one audio slice's key into the ASR queue.
type TranscribeSliceInput struct {
	StorageOverride *domain.StorageOverride
	Bucket          string
	AudioSliceKey   string
	Segment         domain.Segment
}

// CaptionFrame runs on QueueVideoVision: spec.md §4.F stage 8, dispatch
// all then collect.
func (a *Activities) CaptionFrame(ctx context.Context, in CaptionFrameInput) (domain.Keyframe, error) {
	gw, bucket, err := a.GatewayFactory.ForJob(ctx, in.StorageOverride)
	if err != nil {
		return domain.Keyframe{}, fmt.Errorf("caption_frame: gateway: %w", err)
	}
	if in.Bucket != "" {
		bucket = in.Bucket
	}

	workDir, err := os.MkdirTemp("", "video-vision-")
	if err != nil {
		return domain.Keyframe{}, fmt.Errorf("caption_frame: workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	localPath, err := gw.Materialize(ctx, domain.FileSpec{ObjectKey: in.FrameKey}, workDir, bucket)
	if err != nil {
		a.Log.Warn("caption_frame: materialize failed, describing without a description", "key", in.FrameKey, "error", err)
		return domain.Keyframe{Timestamp: in.Timestamp, URL: in.FrameURL}, nil
	}

	results := CaptionFrames(ctx, a.Captioner, a.OCR, []frameJob{{index: 0, timestamp: in.Timestamp, localPath: localPath}}, a.Config, a.Log)
	return domain.Keyframe{Timestamp: in.Timestamp, URL: in.FrameURL, Description: results[0].description}, nil
}

// CaptionFrameInput carries one frame's key into the vision queue.
type CaptionFrameInput struct {
	StorageOverride *domain.StorageOverride
	Bucket          string
	FrameKey        string
	FrameURL        string
	Timestamp       float64
}

// AssembleManifest runs on QueueVideo: spec.md §4.F stage 9.
func (a *Activities) AssembleManifest(ctx context.Context, in AssembleManifestInput) (SliceResult, error) {
	manifest := BuildManifest(in.DocumentID, in.KBID, in.KBType, in.Chunks)

	gw, bucket, err := a.GatewayFactory.ForJob(ctx, in.StorageOverride)
	if err != nil {
		return SliceResult{}, fmt.Errorf("assemble_manifest: gateway: %w", err)
	}
	if in.Bucket != "" {
		bucket = in.Bucket
	}

	workDir, err := os.MkdirTemp("", "video-manifest-")
	if err != nil {
		return SliceResult{}, fmt.Errorf("assemble_manifest: workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	manifestPath := filepath.Join(workDir, "mm-schema.json")
	if err := writeJSONFile(manifestPath, manifest); err != nil {
		return SliceResult{}, fmt.Errorf("assemble_manifest: marshal: %w", err)
	}

	manifestKey := fmt.Sprintf("mm/video/%s/json/mm-schema.json", in.JobID)
	uploadResult, err := gw.Upload(ctx, bucket, manifestKey, manifestPath, "application/json", 0)
	if err != nil {
		return SliceResult{}, fmt.Errorf("assemble_manifest: upload: %w", err)
	}

	return SliceResult{
		JobID:       in.JobID,
		ManifestKey: uploadResult.OutputObjectKey,
		ManifestURL: uploadResult.DownloadURL,
		Manifest:    manifest,
	}, nil
}

// AssembleManifestInput carries every chunk's gathered inputs into the
// final manifest-assembly activity.
type AssembleManifestInput struct {
	JobID           string
	DocumentID      string
	KBID            string
	KBType          string
	Bucket          string
	StorageOverride *domain.StorageOverride
	Chunks          []ChunkInputs
}
