package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	cfg := Config{
		APIBase:     server.URL,
		APIKey:      "test-key",
		EmbedModel:  "text-embedding-v1",
		RerankModel: "qwen-plus",
		MaxRetries:  0,
	}
	client, err := NewClient(cfg, log)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestEmbed_PostsToEmbeddingsEndpointWithBearerAuth(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody embeddingsRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(embeddingsResponse{
			Data: []EmbeddingDatum{{Index: 0, Embedding: []float64{0.1, 0.2}}},
		})
	})

	result, err := client.Embed(context.Background(), []string{"hello"}, "")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if gotPath != "/embeddings" {
		t.Fatalf("expected path /embeddings, got %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth, got %s", gotAuth)
	}
	if gotBody.Model != "text-embedding-v1" {
		t.Fatalf("expected default embed model substituted, got %s", gotBody.Model)
	}
	if len(result.Data) != 1 || result.Data[0].Embedding[1] != 0.2 {
		t.Fatalf("unexpected embed result: %+v", result)
	}
}

func TestEmbed_RejectsEmptyInput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called for empty input")
	})
	if _, err := client.Embed(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestRerank_ParsesJSONArrayFromChatContentAndTruncatesToTopK(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		content := `[{"index":1,"score":0.9,"text":"b"},{"index":0,"score":0.5,"text":"a"},{"index":2,"score":0.2,"text":"c"}]`
		_ = json.NewEncoder(w).Encode(rerankChatResponse{
			Choices: []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			}{{Message: struct {
				Content string `json:"content"`
			}{Content: content}}},
		})
	})

	ranked, err := client.Rerank(context.Background(), "query", []string{"a", "b", "c"}, 2, "")
	if err != nil {
		t.Fatalf("rerank: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected truncation to top_k=2, got %d", len(ranked))
	}
	if ranked[0].Index != 1 || ranked[0].Text != "b" {
		t.Fatalf("unexpected first ranked passage: %+v", ranked[0])
	}
}

func TestRerank_ReturnsNilOnUnparseableContentInsteadOfError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(rerankChatResponse{
			Choices: []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			}{{Message: struct {
				Content string `json:"content"`
			}{Content: "not json"}}},
		})
	})

	ranked, err := client.Rerank(context.Background(), "query", []string{"a"}, 5, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ranked != nil {
		t.Fatalf("expected nil ranked list, got %+v", ranked)
	}
}

func TestRerank_ReturnsErrorOnNonRetryableHTTPStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	})

	if _, err := client.Rerank(context.Background(), "query", []string{"a"}, 5, ""); err == nil {
		t.Fatal("expected error on 401 response")
	}
}
