package video

import (
	"sort"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// BuildSegments builds spec.md §4.F stage 3's segments:
//   - scene_cut enabled: boundaries come from cutTimestamps as the caller
//     supplies them (ProbeAndSegment passes shot-end times from the optional
//     video-intelligence client; no scene-score threshold is applied and
//     Config.SceneThreshold is not read); segments are built from
//     the sorted boundaries, any segment shorter than minDuration is merged
//     into the previous one, and the final segment is stretched to reach
//     totalDuration.
//   - scene_cut disabled (or it produced no usable boundaries): uniform
//     windows of size segmentSeconds until totalDuration is exhausted.
//   - neither path yields a segment: one segment spanning the whole clip.
func BuildSegments(totalDuration float64, cutTimestamps []float64, cfg Config) []domain.Segment {
	if totalDuration <= 0 {
		return nil
	}

	var segs []domain.Segment
	if cfg.SceneCutEnabled && len(cutTimestamps) > 0 {
		segs = segmentsFromCuts(totalDuration, cutTimestamps, cfg.MinDuration)
	} else {
		segs = uniformSegments(totalDuration, cfg.SegmentSeconds)
	}

	if len(segs) == 0 {
		segs = []domain.Segment{{Start: 0, End: totalDuration, Duration: totalDuration}}
	}
	return segs
}

func segmentsFromCuts(totalDuration float64, cuts []float64, minDuration float64) []domain.Segment {
	bounds := make([]float64, 0, len(cuts)+2)
	bounds = append(bounds, 0)
	for _, c := range cuts {
		if c > 0 && c < totalDuration {
			bounds = append(bounds, c)
		}
	}
	bounds = append(bounds, totalDuration)
	sort.Float64s(bounds)
	bounds = dedupSorted(bounds)

	if len(bounds) < 2 {
		return nil
	}

	segs := make([]domain.Segment, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		start, end := bounds[i], bounds[i+1]
		segs = append(segs, domain.Segment{Start: start, End: end, Duration: end - start})
	}

	segs = mergeShortIntoPrevious(segs, minDuration)

	if n := len(segs); n > 0 && segs[n-1].End < totalDuration {
		segs[n-1].End = totalDuration
		segs[n-1].Duration = segs[n-1].End - segs[n-1].Start
	}
	return segs
}

// mergeShortIntoPrevious folds any segment shorter than minDuration into
// the one before it; the first segment is never dropped even if short,
// since there is no previous segment to merge into.
func mergeShortIntoPrevious(segs []domain.Segment, minDuration float64) []domain.Segment {
	if len(segs) == 0 || minDuration <= 0 {
		return segs
	}
	out := make([]domain.Segment, 0, len(segs))
	out = append(out, segs[0])
	for i := 1; i < len(segs); i++ {
		cur := segs[i]
		if cur.Duration < minDuration {
			last := &out[len(out)-1]
			last.End = cur.End
			last.Duration = last.End - last.Start
			continue
		}
		out = append(out, cur)
	}
	return out
}

func uniformSegments(totalDuration, segmentSeconds float64) []domain.Segment {
	if segmentSeconds <= 0 {
		return nil
	}
	var segs []domain.Segment
	for start := 0.0; start < totalDuration; start += segmentSeconds {
		end := start + segmentSeconds
		if end > totalDuration {
			end = totalDuration
		}
		segs = append(segs, domain.Segment{Start: start, End: end, Duration: end - start})
	}
	return segs
}

func dedupSorted(v []float64) []float64 {
	if len(v) == 0 {
		return v
	}
	out := v[:1]
	for _, x := range v[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
