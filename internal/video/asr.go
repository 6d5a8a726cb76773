package video

import (
	"context"
	"os"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/gcp"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Transcriber is the narrow ASR contract the video_asr queue activity
// calls. Kept separate from gcp.Speech so tests can fake it without
// constructing a real client.
type Transcriber interface {
	TranscribeAudioBytes(ctx context.Context, audio []byte, mimeType string, cfg gcp.SpeechConfig) (*gcp.SpeechResult, error)
}

// TranscribeSlices implements spec.md §4.F stage 7: submit one ASR task
// per audio slice, collect sequentially with a bounded per-task timeout.
// A failed or timed-out slice degrades to an empty transcript rather than
// failing the job — only materialize/probe/slice failures are fatal. segs
// supplies each slice's [start,end) so the resulting ASRSegment carries
// absolute timing even though the transcript itself has none.
func TranscribeSlices(ctx context.Context, asr Transcriber, audioSlicePaths []string, segs []domain.Segment, cfg Config, log *logger.Logger) []domain.ASRSegment {
	out := make([]domain.ASRSegment, len(audioSlicePaths))
	for i, path := range audioSlicePaths {
		var start, end float64
		if i < len(segs) {
			start, end = segs[i].Start, segs[i].End
		}
		text, err := transcribeOne(ctx, asr, path, cfg)
		if err != nil {
			log.Warn("asr slice failed, degrading to empty transcript", "path", path, "error", err)
		}
		out[i] = domain.ASRSegment{Start: start, End: end, Text: text}
	}
	return out
}

func transcribeOne(ctx context.Context, asr Transcriber, path string, cfg Config) (string, error) {
	if asr == nil {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	boundedCtx, cancel := context.WithTimeout(ctx, cfg.ASRTimeout)
	defer cancel()
	res, err := asr.TranscribeAudioBytes(boundedCtx, data, "audio/mp4", gcp.SpeechConfig{})
	if err != nil {
		return "", err
	}
	return res.PrimaryText, nil
}
