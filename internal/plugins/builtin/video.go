package builtin

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

// RegisterVideoToMP4 wires every member of the video family onto mp4.
func RegisterVideoToMP4(reg *plugins.Registry) error {
	for _, source := range []string{"avi", "mov", "mkv", "flv", "wmv", "webm", "m4v"} {
		if err := register(reg, "video_to_mp4", source, "mp4", convertVideoToMP4); err != nil {
			return err
		}
	}
	return nil
}

func convertVideoToMP4(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	if err := assertBinary("ffmpeg"); err != nil {
		return domain.ConversionResult{}, err
	}
	outDir := filepath.Join(cctx.WorkDir, "video_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}
	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	outPath := filepath.Join(outDir, base+".mp4")

	args := []string{
		"-y", "-i", input.InputPath,
		"-c:v", "libx264", "-c:a", "aac",
		"-movflags", "faststart",
	}
	args = append(args, trimArgsForDuration(durationSeconds(input))...)
	args = append(args, outPath)

	if _, err := run(cctx.Ctx, 15*time.Minute, "ffmpeg", args...); err != nil {
		return domain.ConversionResult{}, err
	}
	return successResult(input.SourceFormat, "mp4", outPath), nil
}
