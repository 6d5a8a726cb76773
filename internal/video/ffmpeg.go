package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/platform/ctxutil"
)

// Tools is the ffmpeg/ffprobe glue the video pipeline's orchestrator-side
// stages call directly (materialize/slice failures fail the whole job; a
// probe failure falls back to 3·fixed_segment_seconds, per spec.md §4.F's
// failure semantics split). Adapted from the
// teacher's internal/platform/localmedia.Tools, narrowed to what video
// slicing needs and extended with segment-bounded stream-copy slicing.
type Tools interface {
	ProbeDuration(ctx context.Context, mediaPath string) (float64, error)
	ExtractFullAudio(ctx context.Context, mediaPath, outPath string) error
	SliceSegment(ctx context.Context, mediaPath, outPath string, start, end float64, kind string) error
	ExtractKeyframes(ctx context.Context, mediaPath, outDir string, cfg Config, segStart, segEnd float64) ([]string, error)
}

type ffmpegTools struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

func NewTools() Tools {
	return &ffmpegTools{ffmpegPath: "ffmpeg", ffprobePath: "ffprobe", timeout: 10 * time.Minute}
}

var durationLineRe = regexp.MustCompile(`"duration"\s*:\s*"([0-9.]+)"`)

// ProbeDuration shells out to ffprobe for the container duration. Callers
// fall back to 3·fixed_segment_seconds on error, per spec.md §4.F stage 2.
func (t *ffmpegTools) ProbeDuration(ctx context.Context, mediaPath string) (float64, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		mediaPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	m := durationLineRe.FindStringSubmatch(string(out))
	if m == nil {
		return 0, fmt.Errorf("ffprobe output missing duration field")
	}
	d, err := strconv.ParseFloat(m[1], 64)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("ffprobe produced invalid duration %q", m[1])
	}
	return d, nil
}

// ExtractFullAudio pulls the whole clip's audio track to an M4A (AAC),
// matching spec.md §4.F stage 4.
func (t *ffmpegTools) ExtractFullAudio(ctx context.Context, mediaPath, outPath string) error {
	ctx = ctxutil.Default(ctx)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir audio out dir: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.ffmpegPath,
		"-y", "-i", mediaPath,
		"-vn", "-c:a", "aac",
		outPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract full audio failed: %w; out=%s", err, string(out))
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("full audio output missing at %s", outPath)
	}
	return nil
}

// SliceSegment stream-copies [start, end) of mediaPath into outPath with no
// transcode, for either "video" (video+audio) or "audio" (audio-only)
// kind — spec.md §4.F stage 5's stream-copy requirement.
func (t *ffmpegTools) SliceSegment(ctx context.Context, mediaPath, outPath string, start, end float64, kind string) error {
	ctx = ctxutil.Default(ctx)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir slice out dir: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
		"-i", mediaPath,
	}
	switch kind {
	case "audio":
		args = append(args, "-vn", "-c:a", "copy")
	default:
		args = append(args, "-c", "copy")
	}
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg slice segment failed: %w; out=%s", err, string(out))
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("slice output missing at %s", outPath)
	}
	return nil
}

// ExtractKeyframes extracts stills within [segStart, segEnd) at cfg's
// sample FPS, mirroring the teacher's fps=<1/interval> video filter
// (segment boundaries are fixed upstream by BuildSegments; keyframe
// sampling itself is always fixed-rate, per spec.md §4.F stage 6).
func (t *ffmpegTools) ExtractKeyframes(ctx context.Context, mediaPath, outDir string, cfg Config, segStart, segEnd float64) ([]string, error) {
	ctx = ctxutil.Default(ctx)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir frames out dir: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	fps := cfg.SampleFPS
	if fps <= 0 {
		fps = 1.0 / 5.0
	}
	vf := fmt.Sprintf("fps=%0.6f", fps)
	if cfg.FrameWidth > 0 {
		vf += fmt.Sprintf(",scale=%d:-1", cfg.FrameWidth)
	}

	outPattern := filepath.Join(outDir, "frame_%06d.jpg")
	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", segStart),
		"-to", fmt.Sprintf("%.3f", segEnd),
		"-i", mediaPath,
		"-vf", vf,
		"-q:v", "3",
		outPattern,
	}

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg keyframes failed: %w; out=%s", err, string(out))
	}

	frames, err := globSorted(outDir, `^frame_\d+\.jpe?g$`)
	if err != nil {
		return nil, err
	}
	maxFrames := cfg.MaxFramesPerSeg
	if maxFrames <= 0 {
		maxFrames = 20
	}
	if len(frames) > maxFrames {
		frames = frames[:maxFrames]
	}
	return frames, nil
}

func globSorted(dir, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && re.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

