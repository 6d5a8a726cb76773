package orchestrator

import (
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

func TestNormalizeFiles_PrefersMarkdownForTextualSources(t *testing.T) {
	files := []domain.FileSpec{
		{SourceFormat: "HTML", TargetFormat: "pdf"},
		{SourceFormat: "doc", TargetFormat: "pdf"},
		{SourceFormat: "xlsx", TargetFormat: "PDF"},
	}
	got := normalizeFiles(files)
	if got[0].TargetFormat != "md" {
		t.Fatalf("expected html->pdf rewritten to md, got %q", got[0].TargetFormat)
	}
	if got[1].TargetFormat != "pdf" {
		t.Fatalf("expected doc->pdf left untouched, got %q", got[1].TargetFormat)
	}
	if got[2].TargetFormat != "md" {
		t.Fatalf("expected xlsx->pdf rewritten to md, got %q", got[2].TargetFormat)
	}
}

func TestIsPassthroughBatch(t *testing.T) {
	allPDF := []domain.FileSpec{
		{SourceFormat: "pdf", TargetFormat: "pdf", ObjectKey: "a.pdf"},
		{SourceFormat: "pdf", TargetFormat: "pdf", ObjectKey: "b.pdf"},
	}
	if !isPassthroughBatch(allPDF) {
		t.Fatalf("expected passthrough fast-path for all-pdf batch with object keys")
	}

	mixed := []domain.FileSpec{
		{SourceFormat: "pdf", TargetFormat: "pdf", ObjectKey: "a.pdf"},
		{SourceFormat: "doc", TargetFormat: "pdf", ObjectKey: "b.doc"},
	}
	if isPassthroughBatch(mixed) {
		t.Fatalf("expected no fast-path when any file isn't pdf->pdf")
	}

	missingKey := []domain.FileSpec{
		{SourceFormat: "pdf", TargetFormat: "pdf"},
	}
	if isPassthroughBatch(missingKey) {
		t.Fatalf("expected no fast-path when object_key is missing")
	}

	if isPassthroughBatch(nil) {
		t.Fatalf("expected no fast-path for an empty batch")
	}
}

func TestStubConversionResult(t *testing.T) {
	f := domain.FileSpec{SourceFormat: "pdf", TargetFormat: "pdf", ObjectKey: "x.pdf"}
	result := stubConversionResult(f)
	if result.Status != domain.StatusSuccess {
		t.Fatalf("expected stub result to be success, got %v", result.Status)
	}
	if result.OutputObjectKey != "x.pdf" {
		t.Fatalf("expected stub result to echo object key, got %q", result.OutputObjectKey)
	}
	if result.Metadata["note"] != "passthrough pdf" {
		t.Fatalf("expected passthrough note, got %v", result.Metadata["note"])
	}
}
