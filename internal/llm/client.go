// Package llm wraps the chat-completion backend used by the Metadata
// Enricher (internal/enrich) and the video pipeline's frame captioning
// stage (internal/video). Adapted from the teacher's
// internal/clients/openai/client.go: same retry/backoff helpers
// (internal/platform/httpx), same env-var configuration shape, narrowed to
// the two call patterns this module actually needs (plain text and
// structured JSON, with or without an image).
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/platform/httpx"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Client is the chat-completion contract: plain text, an optional image
// attachment, and strict-JSON generation.
type Client interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
	GenerateTextWithImage(ctx context.Context, system, user string, img []byte, mimeType string) (string, error)
	GenerateJSON(ctx context.Context, system, user string) (string, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	baseURL := strings.TrimRight(envOr("LLM_BASE_URL", "https://api.openai.com"), "/")
	model := envOr("LLM_MODEL", "gpt-4o-mini")
	timeoutSec, _ := strconv.Atoi(envOr("LLM_TIMEOUT_SECONDS", "120"))
	maxRetries, _ := strconv.Atoi(envOr("LLM_MAX_RETRIES", "4"))
	return Config{
		BaseURL:    baseURL,
		APIKey:     os.Getenv("LLM_API_KEY"),
		Model:      model,
		Timeout:    time.Duration(timeoutSec) * time.Second,
		MaxRetries: maxRetries,
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string      { return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

type client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing LLM_API_KEY")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("service", "llm.Client"),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat any           `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) GenerateText(ctx context.Context, system, user string) (string, error) {
	return c.chat(ctx, system, textContent(user), nil)
}

func (c *client) GenerateTextWithImage(ctx context.Context, system, user string, img []byte, mimeType string) (string, error) {
	content := []map[string]any{
		{"type": "text", "text": user},
		{"type": "image_url", "image_url": map[string]string{"url": dataURL(mimeType, img)}},
	}
	return c.chat(ctx, system, content, nil)
}

func (c *client) GenerateJSON(ctx context.Context, system, user string) (string, error) {
	return c.chat(ctx, system, textContent(user), map[string]string{"type": "json_object"})
}

func textContent(user string) any { return user }

func dataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

func (c *client) chat(ctx context.Context, system string, userContent any, responseFormat any) (string, error) {
	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: userContent},
		},
		ResponseFormat: responseFormat,
	}

	var resp chatResponse
	if err := c.do(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm response had no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *client) do(ctx context.Context, path string, body, out any) error {
	backoff := 1 * time.Second
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("llm decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.cfg.MaxRetries {
			return err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("llm request retrying", "path", path, "attempt", attempt+1, "sleep", sleepFor.String(), "error", err.Error())
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return fmt.Errorf("llm request exhausted retries")
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
