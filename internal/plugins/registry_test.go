package plugins

import (
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

func noopConvert(ConvertContext, domain.ConversionInput) (domain.ConversionResult, error) {
	return domain.ConversionResult{}, nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	desc := domain.PluginDescriptor{Slug: "doc_to_pdf", SourceFormat: "doc", TargetFormat: "pdf"}
	if err := reg.Register(desc, noopConvert); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := reg.Lookup("DOC", "PDF"); !ok {
		t.Fatalf("expected case-insensitive lookup to find doc->pdf")
	}
	if _, ok := reg.Lookup("doc", "docx"); ok {
		t.Fatalf("expected no plugin for doc->docx")
	}
}

func TestRegistry_Register_RejectsDuplicateKey(t *testing.T) {
	reg := NewRegistry()
	desc := domain.PluginDescriptor{Slug: "a", SourceFormat: "doc", TargetFormat: "pdf"}
	if err := reg.Register(desc, noopConvert); err != nil {
		t.Fatalf("first register: %v", err)
	}
	desc2 := domain.PluginDescriptor{Slug: "b", SourceFormat: "doc", TargetFormat: "pdf"}
	if err := reg.Register(desc2, noopConvert); err == nil {
		t.Fatalf("expected error registering duplicate source/target pair")
	}
}

func TestRegistry_ResolveTarget_PicksDeterministicDefault(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, "doc", "pdf")
	mustRegister(t, reg, "doc", "docx")

	target, err := reg.ResolveTarget("doc")
	if err != nil {
		t.Fatalf("resolve target: %v", err)
	}
	if target != "docx" {
		t.Fatalf("expected lexicographically smallest target %q, got %q", "docx", target)
	}
}

func TestRegistry_ResolveTarget_UsesConfiguredDefaultWhenNoPluginMatches(t *testing.T) {
	reg := NewRegistry()
	reg.SetConfiguredDefault("svg", "png")

	target, err := reg.ResolveTarget("svg")
	if err != nil {
		t.Fatalf("resolve target: %v", err)
	}
	if target != "png" {
		t.Fatalf("expected configured default %q, got %q", "png", target)
	}
}

func TestRegistry_ResolveTarget_ErrorsWhenUnknown(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.ResolveTarget("unknownformat"); err == nil {
		t.Fatalf("expected error for unregistered source format")
	}
}

func mustRegister(t *testing.T, reg *Registry, source, target string) {
	t.Helper()
	desc := domain.PluginDescriptor{Slug: source + "_to_" + target, SourceFormat: source, TargetFormat: target}
	if err := reg.Register(desc, noopConvert); err != nil {
		t.Fatalf("register %s->%s: %v", source, target, err)
	}
}
