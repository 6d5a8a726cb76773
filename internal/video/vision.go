package video

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/gcp"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Captioner is the narrow captioning contract the video_vision queue
// activity calls; grounded on the teacher's ex.Caption collaborator
// (internal/ingestion/pipeline/video.go's s.ex.Caption.Caption call).
type Captioner interface {
	Caption(ctx context.Context, img []byte, mimeType string) (string, error)
}

// OCR is the narrow OCR contract (gcp.Vision.OCRImageBytes), used to pull
// any on-screen text out of a frame alongside its caption.
type OCR interface {
	OCRImageBytes(ctx context.Context, img []byte, mimeType string) (*gcp.VisionOCRResult, error)
}

type frameJob struct {
	index     int
	timestamp float64
	localPath string
}

type frameResult struct {
	index       int
	description string
	err         error
}

// SelectFramesForCaptioning implements spec.md §4.F stage 8's eviction
// policy: frames are first deduped by timestamp; then, if frameCaptionMax
// is unset, every remaining frame is captioned, otherwise up to that many
// are picked evenly across them (not just the first N, to avoid
// head-bias).
func SelectFramesForCaptioning(frames []domain.Keyframe, frameCaptionMax int) []domain.Keyframe {
	deduped := dedupByTimestamp(frames)
	if frameCaptionMax <= 0 || len(deduped) <= frameCaptionMax {
		return deduped
	}

	picked := make([]domain.Keyframe, 0, frameCaptionMax)
	n := len(deduped)
	for i := 0; i < frameCaptionMax; i++ {
		idx := (i * n) / frameCaptionMax
		picked = append(picked, deduped[idx])
	}
	return picked
}

func dedupByTimestamp(frames []domain.Keyframe) []domain.Keyframe {
	seen := make(map[float64]bool, len(frames))
	out := make([]domain.Keyframe, 0, len(frames))
	for _, f := range frames {
		if seen[f.Timestamp] {
			continue
		}
		seen[f.Timestamp] = true
		out = append(out, f)
	}
	return out
}

// CaptionFrames implements spec.md §4.F stage 8's "dispatch all, then
// collect" requirement — the only correct way to get parallelism across
// the external worker pool. It runs OCR and captioning per frame
// concurrently and returns results in the same order as jobs.
func CaptionFrames(ctx context.Context, captioner Captioner, ocr OCR, jobs []frameJob, cfg Config, log *logger.Logger) []frameResult {
	results := make([]frameResult, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job frameJob) {
			defer wg.Done()
			desc, err := captionOne(ctx, captioner, ocr, job, cfg)
			results[i] = frameResult{index: job.index, description: desc, err: err}
		}(i, job)
	}
	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			log.Warn("frame caption/ocr failed", "frame_index", r.index, "error", r.err)
		}
	}
	return results
}

func captionOne(ctx context.Context, captioner Captioner, ocr OCR, job frameJob, cfg Config) (string, error) {
	data, err := os.ReadFile(job.localPath)
	if err != nil {
		return "", fmt.Errorf("read frame %d: %w", job.index, err)
	}

	boundedCtx, cancel := context.WithTimeout(ctx, cfg.VisionTimeout)
	defer cancel()

	var parts []string
	if ocr != nil {
		if res, err := ocr.OCRImageBytes(boundedCtx, data, "image/jpeg"); err == nil && res.PrimaryText != "" {
			parts = append(parts, res.PrimaryText)
		}
	}
	if captioner != nil {
		if text, err := captioner.Caption(boundedCtx, data, "image/jpeg"); err == nil && text != "" {
			parts = append(parts, text)
		}
	}

	description := ""
	for i, p := range parts {
		if i > 0 {
			description += " "
		}
		description += p
	}
	return description, nil
}
