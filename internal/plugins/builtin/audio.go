package builtin

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

// RegisterAudioToMP3 wires every member of the audio family onto mp3.
func RegisterAudioToMP3(reg *plugins.Registry) error {
	for _, source := range []string{"wav", "flac", "m4a", "aac", "ogg", "wma"} {
		if err := register(reg, "audio_to_mp3", source, "mp3", convertAudioToMP3); err != nil {
			return err
		}
	}
	return nil
}

func convertAudioToMP3(cctx plugins.ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	if err := assertBinary("ffmpeg"); err != nil {
		return domain.ConversionResult{}, err
	}
	outDir := filepath.Join(cctx.WorkDir, "audio_out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return domain.ConversionResult{}, err
	}
	base := strings.TrimSuffix(filepath.Base(input.InputPath), filepath.Ext(input.InputPath))
	outPath := filepath.Join(outDir, base+".mp3")

	args := []string{"-y", "-i", input.InputPath, "-codec:a", "libmp3lame", "-qscale:a", "2"}
	args = append(args, trimArgsForDuration(durationSeconds(input))...)
	args = append(args, outPath)

	if _, err := run(cctx.Ctx, 5*time.Minute, "ffmpeg", args...); err != nil {
		return domain.ConversionResult{}, err
	}
	return successResult(input.SourceFormat, "mp3", outPath), nil
}
