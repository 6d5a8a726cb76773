package video

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"os"

	"github.com/fogleman/gg"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

const (
	thumbCellWidth  = 320
	thumbCellHeight = 180
	thumbMaxFrames  = 4
)

// ContactSheet composes up to 4 keyframes into one preview image with a
// chunk-count overlay — adapted from the teacher's
// avatar.go gg.NewContext/DrawImage/DrawString usage
// (internal/services/avatar.go), repurposed from circular avatars to a
// grid contact sheet. No activity calls it, so SliceResult.ThumbnailKey is
// always empty.
func ContactSheet(framePaths []string, chunkCount int) ([]byte, error) {
	picks := framePaths
	if len(picks) > thumbMaxFrames {
		var selected []string
		for _, i := range evenPickIndices(len(picks), thumbMaxFrames) {
			selected = append(selected, picks[i])
		}
		picks = selected
	}
	if len(picks) == 0 {
		return nil, fmt.Errorf("contact sheet needs at least one frame")
	}

	cols := 2
	rows := (len(picks) + cols - 1) / cols
	width := cols * thumbCellWidth
	height := rows * thumbCellHeight

	dc := gg.NewContext(width, height)
	dc.SetColor(color.NRGBA{R: 20, G: 20, B: 24, A: 255})
	dc.Clear()

	for i, path := range picks {
		img, err := loadImage(path)
		if err != nil {
			continue
		}
		col, row := i%cols, i/cols
		x, y := col*thumbCellWidth, row*thumbCellHeight
		dc.DrawImageAnchored(scaleToFit(img, thumbCellWidth, thumbCellHeight), x+thumbCellWidth/2, y+thumbCellHeight/2, 0.5, 0.5)
	}

	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("%d chunks", chunkCount), float64(width)-8, float64(height)-8, 1, 1)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode contact sheet: %w", err)
	}
	return buf.Bytes(), nil
}

// evenPickIndices returns n indices spread evenly across [0,total), so
// callers sample without head-bias instead of always taking the first n.
func evenPickIndices(total, n int) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, (i*total)/n)
	}
	return out
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func scaleToFit(img image.Image, w, h int) image.Image {
	dc := gg.NewContext(w, h)
	dc.Scale(float64(w)/float64(img.Bounds().Dx()), float64(h)/float64(img.Bounds().Dy()))
	dc.DrawImage(img, 0, 0)
	return dc.Image()
}

// KeyPoints builds document_summary.key_points: up to 5 frame@<ts> tokens
// drawn evenly across the manifest's keyframes (spec.md §4.F stage 9).
func KeyPoints(keyframes []domain.Keyframe) []string {
	picks := keyframes
	if len(picks) > 5 {
		selected := make([]domain.Keyframe, 0, 5)
		for _, i := range evenPickIndices(len(picks), 5) {
			selected = append(selected, picks[i])
		}
		picks = selected
	}
	out := make([]string, 0, len(picks))
	for _, kf := range picks {
		out = append(out, fmt.Sprintf("frame@%.2f", kf.Timestamp))
	}
	return out
}
