package builtin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

// RegisterOfficeToPDF wires office->pdf via LibreOffice headless conversion.
func RegisterOfficeToPDF(reg *plugins.Registry) error {
	for _, source := range []string{"doc", "docx", "ppt", "pptx", "odt", "odp"} {
		source := source
		if err := register(reg, "office_to_pdf", source, "pdf", convertOfficeToPDF); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOfficeToDocx wires doc->docx (LibreOffice round-trip).
func RegisterOfficeToDocx(reg *plugins.Registry) error {
	return register(reg, "office_to_docx", "doc", "docx", convertOfficeToFormat("docx"))
}

func convertOfficeToPDF(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	return officeConvert(cctx, input, "pdf")
}

func convertOfficeToFormat(format string) plugins.ConvertFunc {
	return func(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
		return officeConvert(cctx, input, format)
	}
}

func officeConvert(cctx plugins.ConvertContext, input domain.ConversionInput, format string) (domain.ConversionResult, error) {
	if err := assertBinary("soffice"); err != nil {
		return domain.ConversionResult{}, err
	}
	outDir := filepath.Join(cctx.WorkDir, "office_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}

	_, err := run(cctx.Ctx, defaultTimeout, "soffice",
		"--headless", "--nologo", "--nolockcheck", "--nodefault", "--norestore",
		"--convert-to", format,
		"--outdir", outDir,
		input.InputPath,
	)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	outPath := filepath.Join(outDir, base+"."+format)
	if _, statErr := os.Stat(outPath); statErr != nil {
		found, err2 := newestFileWithExt(outDir, "."+format)
		if err2 != nil {
			return domain.ConversionResult{}, fmt.Errorf("%s output not found: %w", format, err2)
		}
		outPath = found
	}

	if format == "pdf" {
		if n := pageLimit(input); n > 0 {
			truncated, err := truncatePDFPages(cctx.Ctx, outPath, n)
			if err != nil {
				return domain.ConversionResult{}, err
			}
			outPath = truncated
		}
	}

	return successResult(input.SourceFormat, format, outPath), nil
}
