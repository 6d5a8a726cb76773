package enrich

import (
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// normalizeText implements spec.md §4.G's first step: cross-fill
// full_text from segments and vice versa; if both are absent, backfill
// from keyframe descriptions. Ported from the original implementation's
// _normalize_text_fields.
func normalizeText(chunk *domain.Chunk) {
	text := &chunk.Content.Text

	if text.FullText == "" && len(text.Segments) == 0 {
		var parts []string
		for _, kf := range chunk.Keyframes {
			if kf.Description != "" {
				parts = append(parts, kf.Description)
			}
		}
		if len(parts) > 0 {
			text.FullText = strings.Join(parts, " ")
		}
	}

	if text.FullText == "" && len(text.Segments) > 0 {
		var sb strings.Builder
		for _, seg := range text.Segments {
			sb.WriteString(seg.Text)
		}
		text.FullText = strings.TrimSpace(sb.String())
	}

	if text.FullText != "" && len(text.Segments) == 0 {
		text.Segments = []domain.ASRSegment{{
			Start: chunk.Temporal.Start,
			End:   chunk.Temporal.End,
			Text:  text.FullText,
		}}
	}
}
