package video

import (
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

func TestKeyPoints_CapsAtFiveEvenlySpread(t *testing.T) {
	keyframes := make([]domain.Keyframe, 12)
	for i := range keyframes {
		keyframes[i] = domain.Keyframe{Timestamp: float64(i)}
	}
	points := KeyPoints(keyframes)
	if len(points) != 5 {
		t.Fatalf("expected 5 key points, got %d: %v", len(points), points)
	}
	if points[0] != "frame@0.00" {
		t.Fatalf("expected the first point to anchor at the first frame, got %s", points[0])
	}
}

func TestKeyPoints_UnderFiveReturnsAll(t *testing.T) {
	keyframes := []domain.Keyframe{{Timestamp: 1}, {Timestamp: 2}}
	points := KeyPoints(keyframes)
	if len(points) != 2 {
		t.Fatalf("expected both keyframes kept, got %d", len(points))
	}
}

func TestKeyPoints_EmptyYieldsEmpty(t *testing.T) {
	if points := KeyPoints(nil); len(points) != 0 {
		t.Fatalf("expected no key points for no keyframes, got %v", points)
	}
}

func TestEvenPickIndices_SpreadsAcrossRange(t *testing.T) {
	idx := evenPickIndices(10, 3)
	if len(idx) != 3 {
		t.Fatalf("expected 3 indices, got %d", len(idx))
	}
	if idx[0] != 0 {
		t.Fatalf("expected the first pick to anchor at 0, got %d", idx[0])
	}
	if idx[len(idx)-1] >= 10 {
		t.Fatalf("expected picks within range, got %v", idx)
	}
}
