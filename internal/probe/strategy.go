package probe

import (
	"context"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// StrategyConfig carries the scoring thresholds and weights the probe
// recommendation logic uses; defaults below are ported verbatim from
// DEFAULT_THRESHOLDS/DEFAULT_WEIGHTS in the original recommendation
// service (see DESIGN.md).
type StrategyConfig struct {
	TableThreshold float64 // t1_table
	CodeThreshold  float64 // t2_code

	ParagraphWeight float64 // w_p, sentence score's paragraph-length term
	TableWeight     float64 // w_t
	CodeWeight      float64 // w_c

	CustomDelimiterEnabled bool
	CustomDelimiters       []string
	MinSegments            int

	TargetLengthMin int
	TargetLengthMax int
	OverlapRatio    float64
}

func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		TableThreshold:  0.10,
		CodeThreshold:   0.05,
		ParagraphWeight: 0.3,
		TableWeight:     0.8,
		CodeWeight:      0.8,
		MinSegments:     2,
		TargetLengthMin: 150,
		TargetLengthMax: 400,
		OverlapRatio:    0.15,
	}
}

// OCRFallback is consulted when a sampled page's text is empty, per
// spec.md §4.D; internal/platform/gcp's Vision client implements it. A nil
// fallback simply skips OCR.
type OCRFallback interface {
	ProcessBytes(ctx context.Context, data []byte, mimeType string) (string, error)
}

// ApplyOCRFallback replaces any empty page in pages with OCR'd text from
// pageImages (same index, PNG bytes of the rendered page), when an
// OCRFallback is configured. Pages that already have text, or that have no
// corresponding rendered image, are left untouched.
func ApplyOCRFallback(ctx context.Context, ocr OCRFallback, pages []string, pageImages [][]byte) []string {
	if ocr == nil {
		return pages
	}
	out := append([]string(nil), pages...)
	for i, page := range out {
		if strings.TrimSpace(page) != "" {
			continue
		}
		if i >= len(pageImages) || len(pageImages[i]) == 0 {
			continue
		}
		text, err := ocr.ProcessBytes(ctx, pageImages[i], "image/png")
		if err != nil {
			continue
		}
		out[i] = text
	}
	return out
}

// RecommendInput is the orchestrator-facing input to Recommend.
type RecommendInput struct {
	SourceFormat    string
	Samples         []domain.PageSample // one PageSample per page when multi-page aggregation applies
	DetectedSegments int
	EmitCandidates  bool
}

// formatHardRoutes maps declared source_format values onto spec.md §4.D
// step 1's hard-routed strategies, ported from the FORMAT_TABLE/
// FORMAT_CODE/FORMAT_SLIDE sets in the original recommendation service.
var formatHardRoutes = map[string]string{
	"csv":  "table_batch",
	"xls":  "table_batch",
	"xlsx": "table_batch",
	"tsv":  "table_batch",

	"py":  "code_log_block",
	"c":   "code_log_block",
	"cpp": "code_log_block",
	"java": "code_log_block",
	"js":  "code_log_block",
	"ts":  "code_log_block",
	"go":  "code_log_block",
	"rs":  "code_log_block",
	"rb":  "code_log_block",
	"php": "code_log_block",
	"sh":  "code_log_block",
	"log": "code_log_block",

	"ppt":  "slide_block_textbox_merge",
	"pptx": "slide_block_textbox_merge",
}

// formatPriorHeadingBiased is FORMAT_TEXT_BIASED_HEADING from the original
// recommendation service: formats whose weighted scoring gets nudged
// toward heading_block_length_split/sentence_split_sliding, since they
// aren't hard-routed by formatHardRoutes.
var formatPriorHeadingBiased = map[string]bool{
	"doc": true, "docx": true, "pdf": true, "html": true, "htm": true,
}

// formatPriorBias ports _format_prior_bias: a per-strategy bias vector
// added to the weighted scores before argmax. Table/code sources never
// reach this (formatHardRoutes intercepts them first), but the branches
// are kept for parity with the source this is ported from.
func formatPriorBias(source string) map[string]float64 {
	bias := map[string]float64{
		"heading_block_length_split": 0,
		"sentence_split_sliding":     0,
		"table_batch":                0,
		"code_log_block":             0,
	}
	switch {
	case formatTableSources[source]:
		bias["table_batch"] += 0.35
		bias["heading_block_length_split"] -= 0.15
		bias["sentence_split_sliding"] -= 0.15
	case formatCodeSources[source]:
		bias["code_log_block"] += 0.35
		bias["heading_block_length_split"] -= 0.1
		bias["sentence_split_sliding"] -= 0.1
		bias["table_batch"] -= 0.1
	case formatPriorHeadingBiased[source]:
		bias["heading_block_length_split"] += 0.1
		bias["sentence_split_sliding"] += 0.05
	}
	return bias
}

var formatTableSources = map[string]bool{"csv": true, "xls": true, "xlsx": true, "tsv": true}

var formatCodeSources = map[string]bool{
	"py": true, "c": true, "cpp": true, "java": true, "js": true, "ts": true,
	"go": true, "rs": true, "rb": true, "php": true, "sh": true, "log": true,
}

// Recommend implements spec.md §4.D's full decision order: format
// hard-routing, custom delimiter gate, table gate, long-paragraph override,
// code gate, then weighted scoring with multi-page aggregation.
func Recommend(cfg StrategyConfig, input RecommendInput) domain.Recommendation {
	source := strings.ToLower(strings.TrimSpace(input.SourceFormat))

	if strategyID, ok := formatHardRoutes[source]; ok {
		return finalize(cfg, strategyID, input, nil, "format hard-routing")
	}

	if cfg.CustomDelimiterEnabled && input.DetectedSegments >= cfg.MinSegments {
		rec := finalize(cfg, "custom_delimiter_split", input, nil, "custom delimiter gate")
		rec.DelimiterHits = input.DetectedSegments
		return rec
	}

	profiles := make([]domain.Profile, 0, len(input.Samples))
	for _, sample := range input.Samples {
		profiles = append(profiles, BuildProfile(sample))
	}
	if len(profiles) == 0 {
		profiles = []domain.Profile{{}}
	}

	for _, p := range profiles {
		if p.TableRatio > cfg.TableThreshold {
			return finalize(cfg, "table_batch", input, profiles, "table gate (any page)")
		}
	}

	agg := aggregate(profiles)
	if agg.P90ParaLen >= 800 || (agg.P90ParaLen >= 600 && agg.HeadingRatio > 0.01) {
		return finalize(cfg, "heading_block_length_split", input, profiles, "long-paragraph override")
	}

	for _, p := range profiles {
		if p.CodeRatio > cfg.CodeThreshold {
			return finalize(cfg, "code_log_block", input, profiles, "code gate (any page)")
		}
	}

	scores := scoreStrategies(cfg, source, profiles)
	best := argmax(scores)
	rec := finalize(cfg, best, input, profiles, "weighted scoring")
	if input.EmitCandidates {
		rec.Candidates = scores
	}
	return rec
}

// scoreStrategies computes the four weighted scores per spec.md §4.D step
// 6, summed/averaged/clamped across pages per the multi-page aggregation
// rule, plus the format-prior bias vector.
func scoreStrategies(cfg StrategyConfig, source string, profiles []domain.Profile) map[string]float64 {
	var sumHeading, sumSentence, sumTable, sumCode float64
	for _, p := range profiles {
		h, l, t, c, p90 := p.HeadingRatio, p.ListRatio, p.TableRatio, p.CodeRatio, p.P90ParaLen

		sHeading := 0.55 + 1.5*h + 1.0*l + boolF(h+l > 0.03)*0.35 + boolF(p90 > 500)*0.35 + boolF(h > 0.25 || l > 0.25)*0.4
		sSentence := 0.22 - 0.9*h - 0.5*l - 0.35*t - 0.35*c + cfg.ParagraphWeight*minF(1, p90/400) - 0.95*maxF(0, (p90-500)/400)
		sTable := cfg.TableWeight * t
		sCode := cfg.CodeWeight * c

		sumHeading += sHeading
		sumSentence += sSentence
		sumTable += sTable
		sumCode += sCode
	}
	n := float64(len(profiles))

	scores := map[string]float64{
		"heading_block_length_split": clamp(sumHeading/n, -1, 1),
		"sentence_split_sliding":     clamp(sumSentence/n, -1, 1),
		"table_batch":                clamp(sumTable/n, -1, 1),
		"code_log_block":             clamp(sumCode/n, -1, 1),
	}

	for strategyID, bias := range formatPriorBias(source) {
		scores[strategyID] += bias
	}
	return scores
}

func aggregate(profiles []domain.Profile) domain.Profile {
	var agg domain.Profile
	n := float64(len(profiles))
	for _, p := range profiles {
		agg.HeadingRatio += p.HeadingRatio
		agg.ListRatio += p.ListRatio
		agg.TableRatio += p.TableRatio
		agg.CodeRatio += p.CodeRatio
		agg.DigitSymbolRatio += p.DigitSymbolRatio
		if p.P90ParaLen > agg.P90ParaLen {
			agg.P90ParaLen = p.P90ParaLen
		}
		if p.P50ParaLen > agg.P50ParaLen {
			agg.P50ParaLen = p.P50ParaLen
		}
	}
	if n > 0 {
		agg.HeadingRatio /= n
		agg.ListRatio /= n
		agg.TableRatio /= n
		agg.CodeRatio /= n
		agg.DigitSymbolRatio /= n
	}
	return agg
}

func argmax(scores map[string]float64) string {
	best := ""
	bestScore := 0.0
	first := true
	for _, id := range []string{"heading_block_length_split", "sentence_split_sliding", "table_batch", "code_log_block"} {
		score, ok := scores[id]
		if !ok {
			continue
		}
		if first || score > bestScore {
			best = id
			bestScore = score
			first = false
		}
	}
	if best == "" {
		best = "sentence_split_sliding"
	}
	return best
}

// finalize builds the Recommendation envelope: mode/mode_id mapping,
// rounded profile, and strategy-specific parameter estimation.
func finalize(cfg StrategyConfig, strategyID string, input RecommendInput, profiles []domain.Profile, note string) domain.Recommendation {
	mode := domain.StrategyToMode[strategyID]
	profile := domain.Profile{}
	if len(profiles) > 0 {
		profile = RoundProfile(aggregate(profiles))
	}

	rec := domain.Recommendation{
		StrategyID: strategyID,
		Mode:       mode,
		ModeID:     domain.ModeID[mode],
		Params:     buildParams(cfg, strategyID, profile),
		Profile:    profile,
		Notes:      []string{note},
	}
	return rec
}

// buildParams implements spec.md §4.D's "Parameter estimation":
// target_length = clamp(p50 or 220, min, max); overlap_ratio defaults to
// 0.15; strategy-specific params are attached.
func buildParams(cfg StrategyConfig, strategyID string, profile domain.Profile) map[string]interface{} {
	p50 := profile.P50ParaLen
	if p50 <= 0 {
		p50 = 220
	}
	targetLength := clamp(p50, float64(cfg.TargetLengthMin), float64(cfg.TargetLengthMax))

	params := map[string]interface{}{
		"target_length": targetLength,
		"overlap_ratio": cfg.OverlapRatio,
	}

	switch strategyID {
	case "table_batch":
		params["preserve_tables"] = true
	case "code_log_block":
		params["no_overlap"] = true
	case "slide_block_textbox_merge":
		params["merge_textboxes"] = true
	case "custom_delimiter_split":
		params["delimiters"] = cfg.CustomDelimiters
	}
	return params
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
