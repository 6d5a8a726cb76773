package video

import "testing"

func TestBuildSegments_UniformWindowsWhenSceneCutDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SceneCutEnabled = false
	cfg.SegmentSeconds = 10

	segs := BuildSegments(25, []float64{3, 7}, cfg)
	if len(segs) != 3 {
		t.Fatalf("expected 3 uniform segments, got %d: %+v", len(segs), segs)
	}
	if segs[2].Start != 20 || segs[2].End != 25 {
		t.Fatalf("expected last segment to be the 5s remainder, got %+v", segs[2])
	}
}

func TestBuildSegments_SceneCutMergesShortSegments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SceneCutEnabled = true
	cfg.MinDuration = 5

	// cuts at 5 and 7 within a 20s clip leave a 2s [5,7) sliver, which
	// must merge into its predecessor [0,5) rather than survive alone.
	segs := BuildSegments(20, []float64{5, 7}, cfg)
	if len(segs) != 2 {
		t.Fatalf("expected the [5,7) sliver merged into [0,5), got %d: %+v", len(segs), segs)
	}
	if segs[0].Start != 0 || segs[0].End != 7 {
		t.Fatalf("expected merged first segment [0,7), got %+v", segs[0])
	}
	if segs[1].Start != 7 || segs[1].End != 20 {
		t.Fatalf("expected final segment stretched to total duration, got %+v", segs[1])
	}
}

func TestBuildSegments_NoCutsAndSceneCutEnabledFallsBackToUniform(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SceneCutEnabled = true
	cfg.SegmentSeconds = 15

	segs := BuildSegments(30, nil, cfg)
	if len(segs) != 2 {
		t.Fatalf("expected fallback to uniform windows, got %d: %+v", len(segs), segs)
	}
}

func TestBuildSegments_ZeroSegmentSecondsYieldsWholeClip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SceneCutEnabled = false
	cfg.SegmentSeconds = 0

	segs := BuildSegments(30, nil, cfg)
	if len(segs) != 1 || segs[0].Start != 0 || segs[0].End != 30 {
		t.Fatalf("expected single whole-clip segment, got %+v", segs)
	}
}

func TestBuildSegments_ZeroDurationReturnsNil(t *testing.T) {
	if segs := BuildSegments(0, nil, DefaultConfig()); segs != nil {
		t.Fatalf("expected nil for zero duration, got %+v", segs)
	}
}
