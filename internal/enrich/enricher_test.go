package enrich

import (
	"context"
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

func TestEnrich_AttachesExtractionPerChunk(t *testing.T) {
	gen := &fakeGenerator{response: `{"summary":"s1","tags":["a"],"keywords":["k1"],"questions":["q1"]}`}
	manifest := domain.Manifest{
		Chunks: []domain.Chunk{
			{ChunkIndex: 1, Content: domain.ChunkContent{Text: domain.TextContent{FullText: "hello"}}},
			{ChunkIndex: 2, Content: domain.ChunkContent{Text: domain.TextContent{FullText: "world"}}},
		},
	}

	e := NewEnricher(gen, DefaultConfig(), testLogger(t))
	e.Enrich(context.Background(), &manifest, "Doc Title")

	if gen.calls != 2 {
		t.Fatalf("expected one LLM call per chunk, got %d", gen.calls)
	}
	for _, c := range manifest.Chunks {
		if c.Metadata.Extraction == nil || c.Metadata.Extraction.Summary != "s1" {
			t.Fatalf("expected extraction attached to every chunk, got %+v", c.Metadata)
		}
	}
	if manifest.DocumentMetadata.Extraction.Summary != "s1\ns1" {
		t.Fatalf("expected newline-joined aggregated summary, got %q", manifest.DocumentMetadata.Extraction.Summary)
	}
	if len(manifest.DocumentMetadata.Extraction.Tags) != 1 {
		t.Fatalf("expected deduped tags across chunks, got %v", manifest.DocumentMetadata.Extraction.Tags)
	}
}

func TestEnrich_DegradesToRawSummaryOnMalformedJSON(t *testing.T) {
	gen := &fakeGenerator{response: "not json at all"}
	manifest := domain.Manifest{
		Chunks: []domain.Chunk{{ChunkIndex: 1, Content: domain.ChunkContent{Text: domain.TextContent{FullText: "hello"}}}},
	}

	e := NewEnricher(gen, DefaultConfig(), testLogger(t))
	e.Enrich(context.Background(), &manifest, "Doc Title")

	ex := manifest.Chunks[0].Metadata.Extraction
	if ex == nil || ex.Summary != "not json at all" {
		t.Fatalf("expected raw text as degraded summary, got %+v", ex)
	}
	if len(ex.Tags) != 0 || len(ex.Keywords) != 0 || len(ex.Questions) != 0 {
		t.Fatalf("expected empty lists in degraded extraction, got %+v", ex)
	}
}

func TestEnrich_SkipsChunkWhenLLMFailsOutright(t *testing.T) {
	gen := &fakeGenerator{err: errFake}
	manifest := domain.Manifest{
		Chunks: []domain.Chunk{{ChunkIndex: 1, Content: domain.ChunkContent{Text: domain.TextContent{FullText: "hello"}}}},
	}

	e := NewEnricher(gen, DefaultConfig(), testLogger(t))
	e.Enrich(context.Background(), &manifest, "Doc Title")

	if manifest.Chunks[0].Metadata.Extraction != nil {
		t.Fatalf("expected no extraction attached when the LLM call fails, got %+v", manifest.Chunks[0].Metadata.Extraction)
	}
}

func TestEnrich_RespectsMaxChunks(t *testing.T) {
	gen := &fakeGenerator{response: `{"summary":"s"}`}
	manifest := domain.Manifest{
		Chunks: []domain.Chunk{
			{ChunkIndex: 1, Content: domain.ChunkContent{Text: domain.TextContent{FullText: "a"}}},
			{ChunkIndex: 2, Content: domain.ChunkContent{Text: domain.TextContent{FullText: "b"}}},
			{ChunkIndex: 3, Content: domain.ChunkContent{Text: domain.TextContent{FullText: "c"}}},
		},
	}

	cfg := DefaultConfig()
	cfg.MaxChunks = 2
	e := NewEnricher(gen, cfg, testLogger(t))
	e.Enrich(context.Background(), &manifest, "Doc Title")

	if gen.calls != 2 {
		t.Fatalf("expected max_chunks to cap LLM calls at 2, got %d", gen.calls)
	}
	if manifest.Chunks[2].Metadata.Extraction != nil {
		t.Fatalf("expected the third chunk to be untouched beyond max_chunks")
	}
}

var errFake = fakeErr("llm unavailable")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
