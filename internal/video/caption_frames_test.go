package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/platform/gcp"
)

type fakeCaptioner struct{ prefix string }

func (f *fakeCaptioner) Caption(ctx context.Context, img []byte, mimeType string) (string, error) {
	return f.prefix + string(img), nil
}

type fakeOCRClient struct{}

func (fakeOCRClient) OCRImageBytes(ctx context.Context, img []byte, mimeType string) (*gcp.VisionOCRResult, error) {
	return &gcp.VisionOCRResult{PrimaryText: ""}, nil
}

func TestCaptionFrames_ReturnsResultsInJobOrder(t *testing.T) {
	dir := t.TempDir()
	var jobs []frameJob
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("frame_%d.bin", i))
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
		jobs = append(jobs, frameJob{index: i, timestamp: float64(i), localPath: path})
	}

	results := CaptionFrames(context.Background(), &fakeCaptioner{prefix: "seen:"}, fakeOCRClient{}, jobs, DefaultConfig(), testLogger(t))
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, r := range results {
		if r.index != i {
			t.Fatalf("expected results[%d].index == %d, got %d", i, i, r.index)
		}
		if r.description == "" {
			t.Fatalf("expected a non-empty caption at index %d", i)
		}
	}
}
