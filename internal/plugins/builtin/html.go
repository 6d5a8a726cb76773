package builtin

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

func RegisterHTMLToPDF(reg *plugins.Registry) error {
	return register(reg, "html_to_pdf", "html", "pdf", convertHTMLToPDF)
}

func RegisterHTMLToMarkdown(reg *plugins.Registry) error {
	return register(reg, "html_to_md", "html", "md", convertHTMLToMarkdown)
}

func convertHTMLToPDF(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	if err := assertBinary("soffice"); err != nil {
		return domain.ConversionResult{}, err
	}
	outDir := filepath.Join(cctx.WorkDir, "html_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}
	if _, err := run(cctx.Ctx, defaultTimeout, "soffice",
		"--headless", "--nologo", "--nolockcheck", "--nodefault", "--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		input.InputPath,
	); err != nil {
		return domain.ConversionResult{}, err
	}

	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	outPath := filepath.Join(outDir, base+".pdf")
	if _, statErr := os.Stat(outPath); statErr != nil {
		found, err2 := newestFileWithExt(outDir, ".pdf")
		if err2 != nil {
			return domain.ConversionResult{}, fmt.Errorf("pdf output not found: %w", err2)
		}
		outPath = found
	}
	if n := pageLimit(input); n > 0 {
		truncated, err := truncatePDFPages(cctx.Ctx, outPath, n)
		if err != nil {
			return domain.ConversionResult{}, err
		}
		outPath = truncated
	}
	return successResult(input.SourceFormat, "pdf", outPath), nil
}

var (
	htmlTagRe      = regexp.MustCompile(`(?is)<script.*?</script>|<style.*?</style>`)
	htmlBlockTagRe = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|br)\s*>`)
	htmlAnyTagRe   = regexp.MustCompile(`<[^>]+>`)
	htmlWhitespace = regexp.MustCompile(`[ \t]+`)
	htmlBlankLines = regexp.MustCompile(`\n{3,}`)
)

// convertHTMLToMarkdown is a lightweight tag-stripping markdown extraction,
// adequate for the "prefer markdown" textual family in spec.md §4.E step 1;
// full HTML->MD fidelity is out of scope (spec.md §1 "Out of scope").
func convertHTMLToMarkdown(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	raw, err := os.ReadFile(input.InputPath)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("read html input: %w", err)
	}
	text := htmlTagRe.ReplaceAllString(string(raw), "")
	text = htmlBlockTagRe.ReplaceAllString(text, "\n")
	text = htmlAnyTagRe.ReplaceAllString(text, "")
	text = htmlWhitespace.ReplaceAllString(text, " ")
	text = htmlBlankLines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	outDir := filepath.Join(cctx.WorkDir, "html_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}
	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	outPath := filepath.Join(outDir, base+".md")
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return domain.ConversionResult{}, fmt.Errorf("write markdown output: %w", err)
	}
	return successResult(input.SourceFormat, "md", outPath), nil
}
