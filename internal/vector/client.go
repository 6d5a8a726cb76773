package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/platform/httpx"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// EmbedResult mirrors tasks.py's embed() return shape.
type EmbedResult struct {
	Model string
	Data  []EmbeddingDatum
	Usage any
}

type EmbeddingDatum struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// RankedPassage mirrors one element of tasks.py's rerank() ranked list.
type RankedPassage struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// Client is the embed/rerank contract, narrowed the way internal/llm.Client
// and internal/enrich.Generator narrow their collaborators.
type Client interface {
	Embed(ctx context.Context, inputs []string, model string) (EmbedResult, error)
	Rerank(ctx context.Context, query string, passages []string, topK int, model string) ([]RankedPassage, error)
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string       { return fmt.Sprintf("vector http %d: %s", e.StatusCode, e.Body) }
func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

type client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing VECTOR_BAILIAN__API_KEY")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}, log: log.With("service", "vector.Client")}, nil
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data  []EmbeddingDatum `json:"data"`
	Usage any              `json:"usage"`
}

// Embed calls the embeddings endpoint, grounded on tasks.py's
// _call_embeddings/embed.
func (c *client) Embed(ctx context.Context, inputs []string, model string) (EmbedResult, error) {
	if len(inputs) == 0 {
		return EmbedResult{}, fmt.Errorf("input list is required")
	}
	if model == "" {
		model = c.cfg.EmbedModel
	}
	var resp embeddingsResponse
	if err := c.do(ctx, "embeddings", embeddingsRequest{Model: model, Input: inputs}, &resp); err != nil {
		return EmbedResult{}, err
	}
	return EmbedResult{Model: model, Data: resp.Data, Usage: resp.Usage}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type rerankChatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat any           `json:"response_format,omitempty"`
}

type rerankChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Rerank asks a chat model to rank passages by relevance to query, grounded
// on tasks.py's _call_rerank (prompt text preserved verbatim, including its
// Chinese instructions, since this targets the same Bailian/DashScope
// rerank-via-chat-completion convention the original relies on).
func (c *client) Rerank(ctx context.Context, query string, passages []string, topK int, model string) ([]RankedPassage, error) {
	if query == "" || len(passages) == 0 {
		return nil, fmt.Errorf("query and passages are required")
	}
	if model == "" {
		model = c.cfg.RerankModel
	}
	if topK <= 0 {
		topK = 5
	}

	prompt := "你是排序助手。给定查询和多个候选文本，请按相关度从高到低排序，输出 JSON 数组，每个元素包含: index(原序号), score(0-1之间), text。禁止输出其他说明。\n"
	prompt += fmt.Sprintf("查询: %s\n候选: \n", query)
	for i, p := range passages {
		prompt += fmt.Sprintf("[%d] %s\n", i, p)
	}

	req := rerankChatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "你是严格的排序器，只输出 JSON。"},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	var resp rerankChatResponse
	if err := c.do(ctx, "chat/completions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		c.log.Warn("rerank response had no choices")
		return nil, nil
	}

	var ranked []RankedPassage
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &ranked); err != nil {
		c.log.Warn("failed to parse rerank JSON, returning empty list", "error", err.Error())
		return nil, nil
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

func (c *client) do(ctx context.Context, endpointSuffix string, body, out any) error {
	backoff := 1 * time.Second
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, endpointSuffix, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("vector decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.cfg.MaxRetries {
			return err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("vector request retrying", "endpoint", endpointSuffix, "attempt", attempt+1, "sleep", sleepFor.String(), "error", err.Error())
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return fmt.Errorf("vector request exhausted retries")
}

func (c *client) doOnce(ctx context.Context, endpointSuffix string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	url := c.cfg.APIBase
	if !hasSuffix(url, endpointSuffix) {
		url = url + "/" + endpointSuffix
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
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

func hasSuffix(base, suffix string) bool {
	return len(base) >= len(suffix) && base[len(base)-len(suffix):] == suffix
}
