package video

import "time"

// Config carries the VIDEO_*/ASR_*/MM_* settings (spec.md §6).
type Config struct {
	SceneCutEnabled bool
	SceneThreshold  float64
	MinDuration     float64 // shortest allowed segment before merge-into-previous
	SegmentSeconds  float64 // fixed-window size when scene_cut is disabled

	SampleFPS       float64 // keyframe sampling rate
	FrameWidth      int
	MaxFramesPerSeg int
	FrameCaptionMax int // 0 = caption every frame in the chunk

	ASRTimeout    time.Duration
	VisionTimeout time.Duration

	WorkDirRoot string
}

func DefaultConfig() Config {
	return Config{
		SceneCutEnabled: true,
		SceneThreshold:  0.3,
		MinDuration:     5,
		SegmentSeconds:  30,
		SampleFPS:       1.0 / 5.0,
		FrameWidth:      1280,
		MaxFramesPerSeg: 20,
		FrameCaptionMax: 0,
		ASRTimeout:      3 * time.Minute,
		VisionTimeout:   60 * time.Second,
	}
}

// fixedSegmentFallback is the probe-duration fallback spec.md §4.F stage 2
// names: 3·fixed_segment_seconds.
func (c Config) fixedSegmentFallback() float64 {
	return 3 * c.SegmentSeconds
}
