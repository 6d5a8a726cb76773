package builtin

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

// RegisterSpreadsheetToPDF wires xls/xlsx->pdf via LibreOffice.
func RegisterSpreadsheetToPDF(reg *plugins.Registry) error {
	for _, source := range []string{"xls", "xlsx"} {
		if err := register(reg, "spreadsheet_to_pdf", source, "pdf", convertSpreadsheetToPDF); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSpreadsheetToMarkdown wires xls/xlsx->md via ssconvert CSV export,
// reformatted into a markdown table.
func RegisterSpreadsheetToMarkdown(reg *plugins.Registry) error {
	for _, source := range []string{"xls", "xlsx"} {
		if err := register(reg, "spreadsheet_to_md", source, "md", convertSpreadsheetToMarkdown); err != nil {
			return err
		}
	}
	return nil
}

func convertSpreadsheetToPDF(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	if err := assertBinary("soffice"); err != nil {
		return domain.ConversionResult{}, err
	}
	outDir := filepath.Join(cctx.WorkDir, "spreadsheet_out")
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

func convertSpreadsheetToMarkdown(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	outDir := filepath.Join(cctx.WorkDir, "spreadsheet_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}
	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	csvPath := filepath.Join(outDir, base+".csv")

	if _, err := exec.LookPath("ssconvert"); err == nil {
		if _, err := run(cctx.Ctx, defaultTimeout, "ssconvert", input.InputPath, csvPath); err != nil {
			return domain.ConversionResult{}, err
		}
	} else if err := assertBinary("soffice"); err == nil {
		if _, err := run(cctx.Ctx, defaultTimeout, "soffice",
			"--headless", "--nologo", "--nolockcheck", "--nodefault", "--norestore",
			"--convert-to", "csv",
			"--outdir", outDir,
			input.InputPath,
		); err != nil {
			return domain.ConversionResult{}, err
		}
	} else {
		return domain.ConversionResult{}, fmt.Errorf("neither ssconvert nor soffice available to extract spreadsheet text")
	}

	md, err := csvFileToMarkdownTable(csvPath)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	outPath := filepath.Join(outDir, base+".md")
	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		return domain.ConversionResult{}, fmt.Errorf("write markdown output: %w", err)
	}
	return successResult(input.SourceFormat, "md", outPath), nil
}

func csvFileToMarkdownTable(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv output: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	row := 0
	for scanner.Scan() {
		cells := strings.Split(scanner.Text(), ",")
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if row == 0 {
			sb.WriteString("|" + strings.Repeat(" --- |", len(cells)) + "\n")
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan csv output: %w", err)
	}
	return sb.String(), nil
}
