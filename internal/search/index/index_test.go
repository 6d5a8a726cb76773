package index

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

func TestCreate_PutsMappingBody(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"acknowledged": true})
	})

	err := Create(context.Background(), client, "kb_chunks_v1", map[string]any{"settings": map[string]any{}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/kb_chunks_v1" {
		t.Fatalf("expected PUT /kb_chunks_v1, got %s %s", gotMethod, gotPath)
	}
}

func TestCreate_ReturnsStatusAndBodyOnFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"resource_already_exists_exception"}`))
	})

	err := Create(context.Background(), client, "kb_chunks_v1", map[string]any{})
	if err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestAliasSwitch_OrdersRemovesBeforeAdds(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"acknowledged": true})
	})

	if err := AliasSwitch(context.Background(), client, "kb_chunks", "kb_chunks_write", "kb_chunks_v2", "kb_chunks_v1"); err != nil {
		t.Fatalf("alias switch: %v", err)
	}

	actions, ok := body["actions"].([]any)
	if !ok || len(actions) != 4 {
		t.Fatalf("expected 4 actions, got %+v", body)
	}
	first := actions[0].(map[string]any)
	if _, ok := first["remove"]; !ok {
		t.Fatalf("expected first action to be a remove, got %+v", first)
	}
	last := actions[3].(map[string]any)
	if _, ok := last["add"]; !ok {
		t.Fatalf("expected last action to be an add, got %+v", last)
	}
}

func TestAliasSwitch_NoRemovesWhenOldIndexEmpty(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	if err := AliasSwitch(context.Background(), client, "kb_chunks", "kb_chunks_write", "kb_chunks_v1", ""); err != nil {
		t.Fatalf("alias switch: %v", err)
	}
	actions := body["actions"].([]any)
	if len(actions) != 2 {
		t.Fatalf("expected 2 add-only actions, got %+v", actions)
	}
}
