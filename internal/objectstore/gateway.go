package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Gateway unifies the S3-style backend and the legacy attach-id server
// behind one get/put/presign contract (spec.md §4.A).
type Gateway struct {
	s3       *S3Store
	attachID *AttachIDClient
	http     *http.Client
	log      *logger.Logger
}

func NewGateway(s3 *S3Store, attachID *AttachIDClient, log *logger.Logger) *Gateway {
	return &Gateway{
		s3:       s3,
		attachID: attachID,
		http:     &http.Client{Timeout: 5 * time.Minute},
		log:      log.With("component", "gateway"),
	}
}

// Materialize resolves a FileSpec's locator to a local file path under
// workDir, unwrapping a downloaded directory to its unique contained file
// when necessary (spec.md §4.A "Downloaded directory" policy).
func (g *Gateway) Materialize(ctx context.Context, spec domain.FileSpec, workDir, bucket string) (string, error) {
	switch {
	case len(spec.InlineBytes) > 0:
		return g.materializeInline(spec, workDir)
	case spec.LocalPath != "":
		return spec.LocalPath, nil
	case spec.ObjectKey != "":
		return g.materializeObjectKey(ctx, spec.ObjectKey, workDir, bucket)
	case spec.RemoteURL != "":
		return g.materializeURL(ctx, spec.RemoteURL, workDir)
	case spec.AttachID != "":
		return g.materializeAttachID(ctx, spec.AttachID, workDir)
	default:
		return "", fmt.Errorf("file spec has no locator set")
	}
}

func (g *Gateway) materializeInline(spec domain.FileSpec, workDir string) (string, error) {
	name := spec.Filename
	if name == "" {
		name = "input.bin"
	}
	dest := filepath.Join(workDir, name)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, spec.InlineBytes, 0o644); err != nil {
		return "", fmt.Errorf("write inline bytes: %w", err)
	}
	return dest, nil
}

func (g *Gateway) materializeObjectKey(ctx context.Context, key, workDir, bucket string) (string, error) {
	rc, err := g.s3.Get(ctx, bucket, key)
	if err != nil {
		return "", fmt.Errorf("materialize object key %q: %w", key, err)
	}
	defer rc.Close()
	dest := filepath.Join(workDir, filepath.Base(key))
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, rc); err != nil {
		return "", fmt.Errorf("write materialized object: %w", err)
	}
	return g.unwrapIfDirectory(dest)
}

// materializeURL honors the same-host optimization: a remote URL that
// resolves to the attach-id server's host+download path with the attach-id
// query param present is routed through the authenticated client instead of
// a bare HTTP GET (spec.md §4.A).
func (g *Gateway) materializeURL(ctx context.Context, remoteURL, workDir string) (string, error) {
	if attachID, ok := g.sameHostAttachID(remoteURL); ok {
		return g.materializeAttachID(ctx, attachID, workDir)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", remoteURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("download %s failed (%d): %s", remoteURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", err
	}
	name := filepath.Base(remoteURL)
	if name == "" || name == "." || name == "/" {
		name = "download.bin"
	}
	dest := filepath.Join(workDir, name)
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write downloaded file: %w", err)
	}
	return g.unwrapIfDirectory(dest)
}

func (g *Gateway) sameHostAttachID(remoteURL string) (string, bool) {
	if g.attachID == nil {
		return "", false
	}
	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", false
	}
	base, err := url.Parse(g.attachID.cfg.BaseURL)
	if err != nil {
		return "", false
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	if !strings.HasSuffix(strings.TrimRight(u.Path, "/"), strings.TrimRight(g.attachID.cfg.DownloadPath, "/")) {
		return "", false
	}
	param := g.attachID.attachIDParam()
	attachID := u.Query().Get(param)
	if attachID == "" {
		return "", false
	}
	return attachID, true
}

func (g *Gateway) materializeAttachID(ctx context.Context, attachID, workDir string) (string, error) {
	if g.attachID == nil {
		return "", fmt.Errorf("attach-id backend not configured")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(workDir, attachID)
	if err := g.attachID.Download(ctx, attachID, dest); err != nil {
		return "", err
	}
	return g.unwrapIfDirectory(dest)
}

// unwrapIfDirectory implements spec.md §4.A's "downloaded directory" policy:
// if the destination is a directory, unwrap to its unique contained file;
// fail with context if the directory holds more than one entry.
func (g *Gateway) unwrapIfDirectory(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat materialized path %q: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("read materialized directory %q: %w", path, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("materialized directory %q is empty, expected exactly one file", path)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("materialized directory %q contains %d files, expected exactly one", path, len(files))
	}
}

// Upload composes the canonical S3-style upload plus, best-effort, a
// legacy attach-id upload, returning the canonical object key and a
// composed download URL (spec.md §4.C step 5/6).
func (g *Gateway) Upload(ctx context.Context, bucket, key, localPath, contentType string, presignExpiry time.Duration) (domain.ConversionResult, error) {
	if err := g.s3.Put(ctx, bucket, key, localPath, contentType); err != nil {
		return domain.ConversionResult{}, fmt.Errorf("upload to s3-style store: %w", err)
	}
	downloadURL, err := g.s3.Presign(ctx, bucket, key, presignExpiry)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("compose download url: %w", err)
	}

	result := domain.ConversionResult{
		OutputObjectKey: key,
		DownloadURL:     downloadURL,
	}

	if g.attachID != nil {
		uploadResult, err := g.attachID.Upload(ctx, localPath, filepath.Base(key))
		if err != nil {
			g.log.Warn("best-effort legacy attach-id upload failed", "key", key, "error", err)
		} else {
			result.ExternalFileID = uploadResult.FileID
		}
	}
	return result, nil
}
