package builtin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

func RegisterSVGToPNG(reg *plugins.Registry) error {
	return register(reg, "svg_to_png", "svg", "png", convertSVGToPNG)
}

func RegisterWebpToPNG(reg *plugins.Registry) error {
	return register(reg, "webp_to_png", "webp", "png", convertWebpToPNG)
}

func convertSVGToPNG(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	if err := assertBinary("inkscape"); err != nil {
		return domain.ConversionResult{}, err
	}
	outDir := filepath.Join(cctx.WorkDir, "image_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}
	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	outPath := filepath.Join(outDir, base+".png")

	if _, err := run(cctx.Ctx, 2*time.Minute, "inkscape",
		input.InputPath,
		"--export-type=png",
		"--export-filename="+outPath,
	); err != nil {
		return domain.ConversionResult{}, err
	}
	if _, err := os.Stat(outPath); err != nil {
		return domain.ConversionResult{}, fmt.Errorf("png output missing at %s", outPath)
	}
	return successResult(input.SourceFormat, "png", outPath), nil
}

func convertWebpToPNG(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	if err := assertBinary("ffmpeg"); err != nil {
		return domain.ConversionResult{}, err
	}
	outDir := filepath.Join(cctx.WorkDir, "image_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}
	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	outPath := filepath.Join(outDir, base+".png")

	if _, err := run(cctx.Ctx, 2*time.Minute, "ffmpeg", "-y", "-i", input.InputPath, outPath); err != nil {
		return domain.ConversionResult{}, err
	}
	return successResult(input.SourceFormat, "png", outPath), nil
}
