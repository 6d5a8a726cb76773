package enrich

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Generator is the narrow chat-completion contract the enricher needs;
// internal/llm.Client satisfies it without either package importing the
// other's concrete types.
type Generator interface {
	GenerateJSON(ctx context.Context, system, user string) (string, error)
}

// Enricher walks a manifest's chunks and attaches LLM-derived extraction
// metadata, then aggregates to document level (spec.md §4.G).
type Enricher struct {
	client Generator
	cfg    Config
	log    *logger.Logger
}

func NewEnricher(client Generator, cfg Config, log *logger.Logger) *Enricher {
	return &Enricher{client: client, cfg: cfg, log: log.With("component", "enrich.Enricher")}
}

// Enrich mutates manifest in place: up to cfg.MaxChunks chunks get
// metadata.extraction, and document_metadata.extraction is the aggregate
// over whichever chunks succeeded. A chunk whose LLM call fails outright
// is skipped (no partial extraction attached); malformed JSON degrades to
// a raw-text summary rather than being skipped.
func (e *Enricher) Enrich(ctx context.Context, manifest *domain.Manifest, title string) {
	max := e.cfg.MaxChunks
	if max <= 0 || max > len(manifest.Chunks) {
		max = len(manifest.Chunks)
	}

	for i := 0; i < max; i++ {
		chunk := &manifest.Chunks[i]
		normalizeText(chunk)

		prompt, err := renderPrompt(e.cfg.PromptTemplate, *chunk, title, e.cfg)
		if err != nil {
			e.log.Warn("prompt render failed, skipping chunk", "chunk_index", chunk.ChunkIndex, "error", err)
			continue
		}

		raw, err := e.client.GenerateJSON(ctx, systemPrompt, prompt)
		if err != nil {
			e.log.Warn("llm extraction failed, skipping chunk", "chunk_index", chunk.ChunkIndex, "error", err)
			continue
		}

		chunk.Metadata.Extraction = parseExtraction(raw)
	}

	manifest.DocumentMetadata.Extraction = aggregate(manifest.Chunks[:max])
}

// parseExtraction implements spec.md §4.G's degrade rule: on strict-JSON
// parse failure, the raw LLM text becomes the summary with every list
// empty, rather than the chunk losing its extraction entirely.
func parseExtraction(raw string) *domain.ExtractionMetadata {
	var parsed domain.ExtractionMetadata
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return &domain.ExtractionMetadata{Summary: strings.TrimSpace(raw)}
	}
	return &parsed
}

// aggregate rolls up chunk-level extraction into one document-level
// ExtractionMetadata: summaries are newline-joined, every list field is
// deduped in first-seen order across chunks.
func aggregate(chunks []domain.Chunk) *domain.ExtractionMetadata {
	var summaries []string
	tags := newOrderedSet()
	keywords := newOrderedSet()
	questions := newOrderedSet()

	for _, c := range chunks {
		ex := c.Metadata.Extraction
		if ex == nil {
			continue
		}
		if ex.Summary != "" {
			summaries = append(summaries, ex.Summary)
		}
		tags.addAll(ex.Tags)
		keywords.addAll(ex.Keywords)
		questions.addAll(ex.Questions)
	}

	return &domain.ExtractionMetadata{
		Summary:   strings.Join(summaries, "\n"),
		Tags:      tags.values(),
		Keywords:  keywords.values(),
		Questions: questions.values(),
	}
}

type orderedSet struct {
	seen    map[string]bool
	ordered []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) addAll(vals []string) {
	for _, v := range vals {
		if v == "" || s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.ordered = append(s.ordered, v)
	}
}

func (s *orderedSet) values() []string {
	return s.ordered
}
