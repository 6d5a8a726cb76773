package builtin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

// RegisterTextToMarkdown wires plain-text/markdown passthrough-adjacent
// normalization onto md (e.g. a stray .txt target that was defaulted to md
// by the orchestrator's "prefer markdown" rule, spec.md §4.E step 1).
func RegisterTextToMarkdown(reg *plugins.Registry) error {
	for _, source := range []string{"txt", "text", "md", "markdown"} {
		if err := register(reg, "text_to_md", source, "md", convertTextToMarkdown); err != nil {
			return err
		}
	}
	return nil
}

func convertTextToMarkdown(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	raw, err := os.ReadFile(input.InputPath)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("read text input: %w", err)
	}
	outDir := filepath.Join(cctx.WorkDir, "text_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}
	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	outPath := filepath.Join(outDir, base+".md")
	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		return domain.ConversionResult{}, fmt.Errorf("write markdown output: %w", err)
	}
	return successResult(input.SourceFormat, "md", outPath), nil
}
