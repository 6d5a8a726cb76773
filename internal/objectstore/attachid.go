package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/platform/httpx"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// AttachIDConfig configures the legacy file-management server client
// (ported from original_source/src/pipeline_service/sitech_fm_client.py).
type AttachIDConfig struct {
	BaseURL         string
	DownloadPath    string
	UploadPath      string
	AttachIDParam   string
	FileFieldName   string
	AuthHeader      string
	AuthToken       string
	Timeout         time.Duration
}

// UploadResult is the legacy server's upload response envelope.
type UploadResult struct {
	Code     string
	FileID   string
	Raw      map[string]interface{}
}

// Succeeded reports whether code is one of the legacy server's
// success markers (spec.md §4.A).
func (u UploadResult) Succeeded() bool {
	switch u.Code {
	case "success", "0", "200":
		return true
	}
	return false
}

type AttachIDClient struct {
	cfg    AttachIDConfig
	http   *http.Client
	log    *logger.Logger
}

func NewAttachIDClient(cfg AttachIDConfig, log *logger.Logger) *AttachIDClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &AttachIDClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With("component", "attachid"),
	}
}

func (c *AttachIDClient) buildURL(path string, query url.Values) (string, error) {
	u, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", err
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *AttachIDClient) setAuth(req *http.Request) {
	if c.cfg.AuthToken == "" {
		return
	}
	header := c.cfg.AuthHeader
	if header == "" {
		header = "Authorization"
	}
	req.Header.Set(header, c.cfg.AuthToken)
}

// Download fetches attachID into dest, per spec.md §4.A's `download(attach_id, dest)`.
func (c *AttachIDClient) Download(ctx context.Context, attachID, dest string) error {
	q := url.Values{}
	q.Set(c.attachIDParam(), attachID)
	target, err := c.buildURL(c.cfg.DownloadPath, q)
	if err != nil {
		return fmt.Errorf("build download url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	c.setAuth(req)

	var resp *http.Response
	for attempt := 0; attempt < 3; attempt++ {
		resp, err = c.http.Do(req)
		if err == nil && resp.StatusCode < 400 {
			break
		}
		if err != nil && !httpx.IsRetryableError(err) {
			return fmt.Errorf("download request failed: %w", err)
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(httpx.JitterSleep(time.Duration(attempt+1) * 200 * time.Millisecond))
	}
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("download failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("mkdir for download dest: %w", err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create download dest: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write download dest: %w", err)
	}
	return nil
}

// Upload posts a file to the legacy server and returns its file id.
func (c *AttachIDClient) Upload(ctx context.Context, path string, filename string) (UploadResult, error) {
	if filename == "" {
		filename = filepath.Base(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return UploadResult{}, fmt.Errorf("open upload source: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fieldName := c.cfg.FileFieldName
	if fieldName == "" {
		fieldName = "file"
	}
	part, err := mw.CreateFormFile(fieldName, filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return UploadResult{}, fmt.Errorf("copy upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, err
	}

	target, err := c.buildURL(c.cfg.UploadPath, nil)
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return UploadResult{}, fmt.Errorf("upload failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	payload, err := parseJSONTolerant(raw)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload response is not valid JSON (status=%d, body~%.200s): %w", resp.StatusCode, string(raw), err)
	}

	result := UploadResult{Raw: payload}
	if v, ok := payload["code"]; ok && v != nil {
		result.Code = fmt.Sprintf("%v", v)
	}
	if v, ok := payload["fileid"]; ok && v != nil {
		result.FileID = fmt.Sprintf("%v", v)
	}
	if !result.Succeeded() {
		return result, fmt.Errorf("upload failed with code=%s: %v", result.Code, payload)
	}
	return result, nil
}

func (c *AttachIDClient) attachIDParam() string {
	if c.cfg.AttachIDParam == "" {
		return "attachId"
	}
	return c.cfg.AttachIDParam
}

// parseJSONTolerant implements the two-stage tolerant-JSON parser required
// by spec.md §4.A/§9: strict parse first, then locate the first balanced
// `{...}` substring and retry (ported from sitech_fm_client.py's
// _parse_json_loose, generalized to true brace-balance matching instead of
// a naive first-'{'/last-'}' slice).
func parseJSONTolerant(raw []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	var payload map[string]interface{}
	if err := json.Unmarshal(trimmed, &payload); err == nil {
		return payload, nil
	}

	snippet, ok := firstBalancedObject(string(trimmed))
	if !ok {
		return nil, fmt.Errorf("no balanced JSON object found in body")
	}
	if err := json.Unmarshal([]byte(snippet), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// firstBalancedObject scans s for the first top-level balanced `{...}`
// substring, honoring string literals so that braces inside quoted values
// don't throw off the depth count.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
