package video

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/gcp"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) TranscribeAudioBytes(ctx context.Context, audio []byte, mimeType string, cfg gcp.SpeechConfig) (*gcp.SpeechResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &gcp.SpeechResult{PrimaryText: f.text}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

func TestTranscribeSlices_CarriesAbsoluteSegmentTiming(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "slice-*.m4a")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	tmp.Close()

	segs := []domain.Segment{{Start: 10, End: 20}}
	out := TranscribeSlices(context.Background(), &fakeTranscriber{text: "hello"}, []string{tmp.Name()}, segs, DefaultConfig(), testLogger(t))

	if len(out) != 1 {
		t.Fatalf("expected one ASR segment, got %d", len(out))
	}
	if out[0].Start != 10 || out[0].End != 20 {
		t.Fatalf("expected absolute segment timing [10,20), got %+v", out[0])
	}
	if out[0].Text != "hello" {
		t.Fatalf("expected transcript text carried through, got %q", out[0].Text)
	}
}

func TestTranscribeSlices_DegradesToEmptyTranscriptOnFailure(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "slice-*.m4a")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	tmp.Close()

	segs := []domain.Segment{{Start: 0, End: 5}}
	out := TranscribeSlices(context.Background(), &fakeTranscriber{err: errors.New("asr unavailable")}, []string{tmp.Name()}, segs, DefaultConfig(), testLogger(t))

	if len(out) != 1 {
		t.Fatalf("expected one degraded ASR segment, got %d", len(out))
	}
	if out[0].Text != "" {
		t.Fatalf("expected empty transcript on failure, got %q", out[0].Text)
	}
	if out[0].Start != 0 || out[0].End != 5 {
		t.Fatalf("expected segment timing preserved even on failure, got %+v", out[0])
	}
}
