package video

import (
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

func TestBuildManifest_AssemblesChunksInOrder(t *testing.T) {
	chunks := []ChunkInputs{
		{
			Segment:    domain.Segment{Start: 0, End: 10, Duration: 10},
			AudioURL:   "https://example.com/a0.m4a",
			VideoURL:   "https://example.com/v0.mp4",
			Transcript: domain.ASRSegment{Start: 0, End: 10, Text: "hello world"},
			Keyframes:  []domain.Keyframe{{Timestamp: 1, Description: "a scene"}},
		},
		{
			Segment:    domain.Segment{Start: 10, End: 20, Duration: 10},
			AudioURL:   "https://example.com/a1.m4a",
			VideoURL:   "https://example.com/v1.mp4",
			Transcript: domain.ASRSegment{Start: 10, End: 20, Text: ""},
		},
	}

	manifest := BuildManifest("doc-1", "kb-1", "video", chunks)
	if manifest.DocumentID != "doc-1" || manifest.KBID != "kb-1" || manifest.KBType != "video" {
		t.Fatalf("expected manifest identity fields set, got %+v", manifest)
	}
	if len(manifest.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(manifest.Chunks))
	}
	if manifest.Chunks[0].ChunkIndex != 1 || manifest.Chunks[1].ChunkIndex != 2 {
		t.Fatalf("expected 1-based chunk indices, got %d and %d", manifest.Chunks[0].ChunkIndex, manifest.Chunks[1].ChunkIndex)
	}
	if manifest.Chunks[0].Content.Text.FullText != "hello world" {
		t.Fatalf("expected full_text from the transcript, got %q", manifest.Chunks[0].Content.Text.FullText)
	}
	if len(manifest.DocumentMetadata.Summary.KeyPoints) != 1 {
		t.Fatalf("expected one key point from the single keyframe, got %v", manifest.DocumentMetadata.Summary.KeyPoints)
	}
}

func TestBuildManifest_NoChunksYieldsEmptyManifest(t *testing.T) {
	manifest := BuildManifest("doc-1", "kb-1", "video", nil)
	if len(manifest.Chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(manifest.Chunks))
	}
	if len(manifest.DocumentMetadata.Summary.KeyPoints) != 0 {
		t.Fatalf("expected no key points, got %v", manifest.DocumentMetadata.Summary.KeyPoints)
	}
}
