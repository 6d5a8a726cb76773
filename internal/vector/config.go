// Package vector implements embedding and rerank calls over an
// OpenAI-compatible endpoint (the `vector` queue spec.md §5/§9 names via
// its VECTOR_* environment prefix but leaves otherwise unspecified).
// Grounded on _examples/original_source/src/vector_service/{tasks.py,
// config.py}: a DashScope/Bailian-compatible embeddings+rerank client,
// adapted here in the same retry/backoff shape as internal/llm.Client.
package vector

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIBase     string
	APIKey      string
	EmbedModel  string
	RerankModel string
	Timeout     time.Duration
	MaxRetries  int
}

func ConfigFromEnv() Config {
	base := strings.TrimRight(envOr("VECTOR_BAILIAN__API_BASE", "https://dashscope.aliyuncs.com/compatible-mode/v1"), "/")
	timeoutSec, _ := strconv.Atoi(envOr("VECTOR_BAILIAN__REQUEST_TIMEOUT_SEC", "60"))
	maxRetries, _ := strconv.Atoi(envOr("VECTOR_MAX_RETRIES", "4"))
	apiKey := os.Getenv("VECTOR_BAILIAN__API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("DASHSCOPE_API_KEY")
	}
	return Config{
		APIBase:     base,
		APIKey:      apiKey,
		EmbedModel:  envOr("VECTOR_BAILIAN__EMBED_MODEL", "text-embedding-v1"),
		RerankModel: envOr("VECTOR_BAILIAN__RERANK_MODEL", "qwen-plus"),
		Timeout:     time.Duration(timeoutSec) * time.Second,
		MaxRetries:  maxRetries,
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
