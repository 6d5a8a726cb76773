package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// GCSStaging is a thin helper used only so the speech/videointelligence
// clients can read gs:// URIs; it is not part of the public S3-style or
// attach-id Gateway contract (spec.md §4.A scopes those two backends only).
// Adapted from the teacher's newStorageClientForMode, trimmed to one mode
// since no emulator switch is needed for this staging-only use.
type GCSStaging struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

func NewGCSStaging(ctx context.Context, bucket string, log *logger.Logger) (*GCSStaging, error) {
	cli, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("construct gcs staging client: %w", err)
	}
	return &GCSStaging{client: cli, bucket: bucket, log: log.With("component", "gcs_staging")}, nil
}

// Stage uploads localPath to the staging bucket and returns its gs:// URI.
func (s *GCSStaging) Stage(ctx context.Context, key, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open stage source: %w", err)
	}
	defer f.Close()

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx2)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write stage object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close stage writer: %w", err)
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, key), nil
}

// IsGCSURI reports whether the given string is already a gs:// reference.
func IsGCSURI(s string) bool {
	return strings.HasPrefix(s, "gs://")
}

func (s *GCSStaging) Close() error {
	return s.client.Close()
}
