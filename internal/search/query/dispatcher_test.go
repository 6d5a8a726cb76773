package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/search"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *search.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := search.NewClient(search.Config{Endpoint: server.URL, InsecureSkipVerify: true})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestFilters_OrdersPermissionFiltersBeforeOthers(t *testing.T) {
	permission := []map[string]any{{"term": map[string]any{"tenant_id": "t1"}}}
	other := []map[string]any{{"term": map[string]any{"status": "active"}}}
	combined := Filters(permission, other)
	if len(combined) != 2 {
		t.Fatalf("expected 2 combined filters, got %d", len(combined))
	}
	if combined[0]["term"].(map[string]any)["tenant_id"] != "t1" {
		t.Fatalf("expected permission filter first, got %+v", combined[0])
	}
}

func TestNormalizeWeights_ClampsAndSplitsRatio(t *testing.T) {
	tw, vw := NormalizeWeights(0.25)
	if tw != 0.75 || vw != 0.25 {
		t.Fatalf("expected (0.75,0.25), got (%v,%v)", tw, vw)
	}
	tw, vw = NormalizeWeights(-1)
	if tw != 1 || vw != 0 {
		t.Fatalf("expected ratio clamped to 0, got (%v,%v)", tw, vw)
	}
	tw, vw = NormalizeWeights(2)
	if tw != 0 || vw != 1 {
		t.Fatalf("expected ratio clamped to 1, got (%v,%v)", tw, vw)
	}
}

func TestTextSearch_BuildsMultiMatchWithPermissionFiltersFirst(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"hits":{"hits":[]}}`))
	})

	cfg := search.DefaultConfig()
	_, err := TextSearch(context.Background(), client, cfg, TextRequest{
		Query:             "machine learning",
		PermissionFilters: []map[string]any{{"term": map[string]any{"tenant_id": "t1"}}},
		Filters:           []map[string]any{{"term": map[string]any{"status": "active"}}},
		Size:              10,
	})
	if err != nil {
		t.Fatalf("text search: %v", err)
	}

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	filters := boolQuery["filter"].([]any)
	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %+v", filters)
	}
	first := filters[0].(map[string]any)["term"].(map[string]any)
	if first["tenant_id"] != "t1" {
		t.Fatalf("expected permission filter evaluated first, got %+v", filters)
	}
}

func TestVectorSearch_UsesConfigDefaultsWhenUnset(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	cfg := search.DefaultConfig()
	_, err := VectorSearch(context.Background(), client, cfg, VectorRequest{QueryVector: []float64{0.1, 0.2}, Size: 5})
	if err != nil {
		t.Fatalf("vector search: %v", err)
	}
	knn := body["knn"].(map[string]any)
	if knn["field"] != cfg.VectorField {
		t.Fatalf("expected default vector field %q, got %v", cfg.VectorField, knn["field"])
	}
	if int(knn["num_candidates"].(float64)) != cfg.DefaultNumCandidates {
		t.Fatalf("expected default num_candidates %d, got %v", cfg.DefaultNumCandidates, knn["num_candidates"])
	}
}

func TestHybridSearch_BuildsScriptScoreWithCosineSimilarity(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	cfg := search.DefaultConfig()
	_, err := HybridSearch(context.Background(), client, cfg, HybridRequest{
		Query:        "onboarding",
		QueryVector:  []float64{0.1, 0.2},
		TextWeight:   0.4,
		VectorWeight: 0.6,
		Size:         5,
	})
	if err != nil {
		t.Fatalf("hybrid search: %v", err)
	}
	scriptScore := body["query"].(map[string]any)["script_score"].(map[string]any)
	script := scriptScore["script"].(map[string]any)
	params := script["params"].(map[string]any)
	if params["text_weight"] != 0.4 || params["vector_weight"] != 0.6 {
		t.Fatalf("expected weights forwarded into script params, got %+v", params)
	}
}

func TestTextSearch_ReturnsStatusAndBodyOnFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"search_phase_execution_exception"}`))
	})

	cfg := search.DefaultConfig()
	_, err := TextSearch(context.Background(), client, cfg, TextRequest{Query: "x", Size: 1})
	if err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
