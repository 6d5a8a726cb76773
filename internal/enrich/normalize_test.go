package enrich

import (
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

func TestNormalizeText_BackfillsFromKeyframesWhenTextAbsent(t *testing.T) {
	chunk := domain.Chunk{
		Keyframes: []domain.Keyframe{{Description: "a dog"}, {Description: "running"}},
	}
	normalizeText(&chunk)
	if chunk.Content.Text.FullText != "a dog running" {
		t.Fatalf("expected keyframe descriptions joined, got %q", chunk.Content.Text.FullText)
	}
	if len(chunk.Content.Text.Segments) != 1 {
		t.Fatalf("expected a single synthesized segment, got %d", len(chunk.Content.Text.Segments))
	}
}

func TestNormalizeText_RebuildsFullTextFromSegments(t *testing.T) {
	chunk := domain.Chunk{
		Content: domain.ChunkContent{
			Text: domain.TextContent{
				Segments: []domain.ASRSegment{{Text: "hello "}, {Text: "world"}},
			},
		},
	}
	normalizeText(&chunk)
	if chunk.Content.Text.FullText != "hello  world" && chunk.Content.Text.FullText != "hello world" {
		t.Fatalf("expected full_text rebuilt from segments, got %q", chunk.Content.Text.FullText)
	}
}

func TestNormalizeText_BuildsSegmentFromFullTextWhenSegmentsAbsent(t *testing.T) {
	chunk := domain.Chunk{
		Temporal: domain.ChunkTemporal{Start: 1, End: 5},
		Content:  domain.ChunkContent{Text: domain.TextContent{FullText: "already here"}},
	}
	normalizeText(&chunk)
	if len(chunk.Content.Text.Segments) != 1 {
		t.Fatalf("expected one synthesized segment, got %d", len(chunk.Content.Text.Segments))
	}
	if chunk.Content.Text.Segments[0].Start != 1 || chunk.Content.Text.Segments[0].End != 5 {
		t.Fatalf("expected segment to span the chunk's temporal range, got %+v", chunk.Content.Text.Segments[0])
	}
}

func TestNormalizeText_LeavesBothEmptyWhenNothingToBackfillFrom(t *testing.T) {
	chunk := domain.Chunk{}
	normalizeText(&chunk)
	if chunk.Content.Text.FullText != "" || len(chunk.Content.Text.Segments) != 0 {
		t.Fatalf("expected no text/segments conjured from nothing, got %+v", chunk.Content.Text)
	}
}
