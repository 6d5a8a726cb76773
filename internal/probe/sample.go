// Package probe implements the Probe Engine (spec.md §4.D): page sampling,
// line-regex feature extraction into a domain.Profile, and the decision-order
// strategy recommendation. Sampling is the Orchestrator's input contract but
// lives here since it feeds directly into profiling; grounded in shape on the
// teacher's internal/ingestion/extractor page-walking helpers (random access
// by page index, trailing-page truncation by a character budget).
package probe

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// SampleConfig controls both the PDF random-walk page sampler and the
// Markdown paragraph sampler (SLICE_* prefix, spec.md §6).
type SampleConfig struct {
	SampleRatio      float64 // default 0.2
	MaxSamplePages   int     // caps k at 10 per spec.md §4.D
	PageLimitHint    int     // optional caller hint
	CharBudget       int     // truncate trailing pages beyond this total char count
	MarkdownSamplePages int  // "sample_pages" for markdown paragraph sampling
	RandSource       *rand.Rand
}

func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		SampleRatio:         0.2,
		MaxSamplePages:      10,
		CharBudget:          60_000,
		MarkdownSamplePages: 10,
	}
}

// SamplePDFPages implements spec.md §4.D's PDF sampling rule: choose
// k = min(10, max(round(N*ratio), min(page_limit_hint, N))), start at the
// middle page, random-walk outward with a bounded left/right step (1..3),
// collect a sorted set of unique page indices of size k, then cap the
// concatenated character count by truncating trailing pages.
func SamplePDFPages(cfg SampleConfig, pages []string) domain.PageSample {
	n := len(pages)
	if n == 0 {
		return nil
	}
	ratio := cfg.SampleRatio
	if ratio <= 0 {
		ratio = 0.2
	}
	maxK := cfg.MaxSamplePages
	if maxK <= 0 {
		maxK = 10
	}

	hintBound := cfg.PageLimitHint
	if hintBound <= 0 || hintBound > n {
		hintBound = n
	}
	k := roundInt(float64(n) * ratio)
	if hintBound > k {
		k = hintBound
	}
	if k > maxK {
		k = maxK
	}
	if k > n {
		k = n
	}
	if k <= 0 {
		k = 1
	}

	rng := cfg.RandSource
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	chosen := make(map[int]bool, k)
	mid := n / 2
	chosen[mid] = true
	cursor := mid
	for len(chosen) < k {
		step := 1 + rng.Intn(3)
		if rng.Intn(2) == 0 {
			cursor -= step
		} else {
			cursor += step
		}
		if cursor < 0 {
			cursor = 0
		}
		if cursor >= n {
			cursor = n - 1
		}
		if !chosen[cursor] {
			chosen[cursor] = true
			continue
		}
		// already chosen; try every remaining unvisited index before giving up
		found := false
		for i := 0; i < n; i++ {
			if !chosen[i] {
				chosen[i] = true
				found = true
				break
			}
		}
		if !found {
			break
		}
	}

	indices := make([]int, 0, len(chosen))
	for idx := range chosen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make(domain.PageSample, 0, len(indices))
	total := 0
	for _, idx := range indices {
		page := pages[idx]
		if cfg.CharBudget > 0 && total >= cfg.CharBudget {
			break
		}
		if cfg.CharBudget > 0 && total+len(page) > cfg.CharBudget {
			page = page[:cfg.CharBudget-total]
		}
		out = append(out, page)
		total += len(page)
	}
	return out
}

// SampleMarkdownParagraphs splits on blank lines and takes up to
// sample_pages non-empty paragraphs (spec.md §4.D).
func SampleMarkdownParagraphs(cfg SampleConfig, text string) domain.PageSample {
	limit := cfg.MarkdownSamplePages
	if limit <= 0 {
		limit = 10
	}
	paragraphs := splitParagraphs(text)
	out := make(domain.PageSample, 0, limit)
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func splitParagraphs(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var paragraphs []string
	var cur []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				paragraphs = append(paragraphs, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		paragraphs = append(paragraphs, strings.Join(cur, "\n"))
	}
	return paragraphs
}

func roundInt(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
