package probe

import (
	"context"
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

func TestRecommend_FormatHardRouting(t *testing.T) {
	cfg := DefaultStrategyConfig()
	rec := Recommend(cfg, RecommendInput{SourceFormat: "xlsx"})
	if rec.StrategyID != "table_batch" {
		t.Fatalf("expected table_batch for xlsx, got %s", rec.StrategyID)
	}
	if rec.Mode != domain.ModeHierarchicalHeading || rec.ModeID != 3 {
		t.Fatalf("expected mode/mode_id bijection for table_batch, got %v/%d", rec.Mode, rec.ModeID)
	}
}

func TestRecommend_CustomDelimiterGate(t *testing.T) {
	cfg := DefaultStrategyConfig()
	cfg.CustomDelimiterEnabled = true
	cfg.CustomDelimiters = []string{"---"}
	cfg.MinSegments = 2

	rec := Recommend(cfg, RecommendInput{
		SourceFormat:     "md",
		DetectedSegments: 4,
		Samples:          []domain.PageSample{{"---a---b---c---d---"}},
	})
	if rec.StrategyID != "custom_delimiter_split" {
		t.Fatalf("expected custom_delimiter_split, got %s", rec.StrategyID)
	}
	if rec.Mode != domain.ModeDirectDelimiter || rec.ModeID != 1 {
		t.Fatalf("expected direct_delimiter mode/id 1, got %v/%d", rec.Mode, rec.ModeID)
	}
	if rec.DelimiterHits != 4 {
		t.Fatalf("expected delimiter_hits=4, got %d", rec.DelimiterHits)
	}
}

func TestRecommend_TableGateWinsAcrossMultiplePages(t *testing.T) {
	cfg := DefaultStrategyConfig()
	tableHeavy := domain.PageSample{"a,b,c,d\n1,2,3,4\n5,6,7,8"}
	plain := domain.PageSample{"Just some ordinary prose with no structure at all here."}

	rec := Recommend(cfg, RecommendInput{
		SourceFormat: "pdf",
		Samples:      []domain.PageSample{plain, tableHeavy},
	})
	if rec.StrategyID != "table_batch" {
		t.Fatalf("expected table_batch when any page triggers the table gate, got %s", rec.StrategyID)
	}
}

func TestRecommend_LongParagraphOverride(t *testing.T) {
	cfg := DefaultStrategyConfig()
	longPara := make([]byte, 900)
	for i := range longPara {
		longPara[i] = 'x'
	}
	rec := Recommend(cfg, RecommendInput{
		SourceFormat: "pdf",
		Samples:      []domain.PageSample{{string(longPara)}},
	})
	if rec.StrategyID != "heading_block_length_split" {
		t.Fatalf("expected heading_block_length_split for p90>=800, got %s", rec.StrategyID)
	}
}

func TestRecommend_CodeGate(t *testing.T) {
	cfg := DefaultStrategyConfig()
	codeHeavy := domain.PageSample{"def foo():\nclass Bar:\nfunction baz() {\nx = 1;\ny = 2;"}
	rec := Recommend(cfg, RecommendInput{
		SourceFormat: "pdf",
		Samples:      []domain.PageSample{codeHeavy},
	})
	if rec.StrategyID != "code_log_block" {
		t.Fatalf("expected code_log_block, got %s", rec.StrategyID)
	}
}

func TestScoreStrategies_FormatPriorBiasFlipsArgmax(t *testing.T) {
	cfg := DefaultStrategyConfig()
	profiles := []domain.Profile{{TableRatio: 0.3}}

	unbiased := scoreStrategies(cfg, "pdf", profiles)
	if argmax(unbiased) != "heading_block_length_split" {
		t.Fatalf("expected heading_block_length_split to win unbiased, got %s (%v)", argmax(unbiased), unbiased)
	}

	biased := scoreStrategies(cfg, "csv", profiles)
	if argmax(biased) != "table_batch" {
		t.Fatalf("expected the csv format-prior bias to flip argmax to table_batch, got %s (%v)", argmax(biased), biased)
	}
}

func TestBuildProfile_RoundsToThreeDecimals(t *testing.T) {
	sample := domain.PageSample{"# Heading\nsome text\n- bullet one\n- bullet two"}
	p := BuildProfile(sample)
	if p.HeadingRatio != round3(p.HeadingRatio) {
		t.Fatalf("heading ratio not rounded: %v", p.HeadingRatio)
	}
}

func TestModeIDBijection(t *testing.T) {
	for mode, id := range domain.ModeID {
		if domain.ModeFromID(id) != mode {
			t.Fatalf("mode/mode_id bijection broken for %v/%d", mode, id)
		}
	}
}

type fakeOCR struct {
	text string
	err  error
	n    int
}

func (f *fakeOCR) ProcessBytes(ctx context.Context, data []byte, mimeType string) (string, error) {
	f.n++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestApplyOCRFallback_FillsEmptyPagesWithImages(t *testing.T) {
	pages := []string{"page one text", "", ""}
	images := [][]byte{nil, {0x1}, nil}
	ocr := &fakeOCR{text: "ocr recovered text"}

	out := ApplyOCRFallback(context.Background(), ocr, pages, images)

	if out[0] != "page one text" {
		t.Fatalf("non-empty page must be left untouched, got %q", out[0])
	}
	if out[1] != "ocr recovered text" {
		t.Fatalf("empty page with an image should be OCR'd, got %q", out[1])
	}
	if out[2] != "" {
		t.Fatalf("empty page with no image must stay empty, got %q", out[2])
	}
	if ocr.n != 1 {
		t.Fatalf("expected exactly one OCR call, got %d", ocr.n)
	}
}

func TestApplyOCRFallback_NilFallbackIsNoop(t *testing.T) {
	pages := []string{"", "text"}
	out := ApplyOCRFallback(context.Background(), nil, pages, [][]byte{{0x1}, {0x1}})
	if out[0] != "" || out[1] != "text" {
		t.Fatalf("nil fallback must leave pages untouched, got %v", out)
	}
}
