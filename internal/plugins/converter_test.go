package plugins

import (
	"context"
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

func TestIsPassthrough(t *testing.T) {
	cases := []struct {
		source, target string
		want            bool
	}{
		{"pdf", "pdf", true},
		{"PDF", "pdf", true},
		{"pdf", "", true},
		{"pdf", "docx", false},
	}
	for _, c := range cases {
		if got := IsPassthrough(c.source, c.target); got != c.want {
			t.Errorf("IsPassthrough(%q,%q) = %v, want %v", c.source, c.target, got, c.want)
		}
	}
}

func TestService_Convert_UnsupportedFormatError(t *testing.T) {
	reg := NewRegistry()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewService(reg, log)

	_, err = svc.Convert(ConvertContext{Ctx: context.Background(), Log: log, WorkDir: t.TempDir()}, domain.ConversionInput{
		SourceFormat: "doc",
		TargetFormat: "pdf",
		InputPath:    "/tmp/in.doc",
	})
	if err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestService_Convert_DispatchesToRegisteredPlugin(t *testing.T) {
	reg := NewRegistry()
	called := false
	err := reg.Register(domain.PluginDescriptor{Slug: "doc_to_pdf", SourceFormat: "doc", TargetFormat: "pdf"},
		func(cctx ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
			called = true
			return domain.ConversionResult{Status: domain.StatusSuccess}, nil
		})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewService(reg, log)

	result, err := svc.Convert(ConvertContext{Ctx: context.Background(), Log: log, WorkDir: t.TempDir()}, domain.ConversionInput{
		SourceFormat: "doc",
		TargetFormat: "pdf",
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !called {
		t.Fatalf("expected plugin function to be called")
	}
	if result.Status != domain.StatusSuccess {
		t.Fatalf("expected success status, got %v", result.Status)
	}
}
