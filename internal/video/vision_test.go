package video

import (
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

func TestDedupByTimestamp_DropsRepeats(t *testing.T) {
	frames := []domain.Keyframe{
		{Timestamp: 1.0}, {Timestamp: 1.0}, {Timestamp: 2.0},
	}
	out := dedupByTimestamp(frames)
	if len(out) != 2 {
		t.Fatalf("expected 2 unique timestamps, got %d: %+v", len(out), out)
	}
}

func TestSelectFramesForCaptioning_UnderMaxReturnsAllDeduped(t *testing.T) {
	frames := []domain.Keyframe{{Timestamp: 1}, {Timestamp: 2}, {Timestamp: 2}}
	out := SelectFramesForCaptioning(frames, 10)
	if len(out) != 2 {
		t.Fatalf("expected dedup-only when under frame_caption_max, got %d: %+v", len(out), out)
	}
}

func TestSelectFramesForCaptioning_EvenPickAvoidsHeadBias(t *testing.T) {
	frames := make([]domain.Keyframe, 10)
	for i := range frames {
		frames[i] = domain.Keyframe{Timestamp: float64(i)}
	}
	out := SelectFramesForCaptioning(frames, 3)
	if len(out) != 3 {
		t.Fatalf("expected exactly frame_caption_max frames, got %d", len(out))
	}
	// An even pick across 10 items for 3 slots should not be {0,1,2}.
	if out[0].Timestamp == 0 && out[1].Timestamp == 1 && out[2].Timestamp == 2 {
		t.Fatalf("expected evenly spread picks, got head-biased %+v", out)
	}
	if out[len(out)-1].Timestamp == 0 {
		t.Fatalf("expected the pick to reach toward the tail, got %+v", out)
	}
}

func TestSelectFramesForCaptioning_ZeroMaxMeansCaptionEverything(t *testing.T) {
	frames := []domain.Keyframe{{Timestamp: 1}, {Timestamp: 2}, {Timestamp: 3}}
	out := SelectFramesForCaptioning(frames, 0)
	if len(out) != 3 {
		t.Fatalf("expected 0 to mean uncapped, got %d", len(out))
	}
}
