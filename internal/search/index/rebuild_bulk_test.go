package index

import (
	"context"
	"net/http"
	"testing"
)

func TestBulkIngest_ShortCircuitsOnEmptyInputWithoutHTTPCall(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	result, err := BulkIngest(context.Background(), client, "kb_chunks_v1", nil, "")
	if err != nil {
		t.Fatalf("bulk ingest: %v", err)
	}
	if called {
		t.Fatal("expected no HTTP call for empty input")
	}
	if result.Ingested != 0 || result.Status != 200 {
		t.Fatalf("expected zero-count success, got %+v", result)
	}
}

func TestBulkIngest_PostsNDJSONWithRefreshParam(t *testing.T) {
	var gotContentType, gotRefresh string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotRefresh = r.URL.Query().Get("refresh")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	result, err := BulkIngest(context.Background(), client, "kb_chunks_v1", []map[string]any{{"content": "x"}}, "wait_for")
	if err != nil {
		t.Fatalf("bulk ingest: %v", err)
	}
	if result.Ingested != 1 {
		t.Fatalf("expected 1 ingested, got %d", result.Ingested)
	}
	if gotContentType != "application/x-ndjson" {
		t.Fatalf("expected ndjson content type, got %q", gotContentType)
	}
	if gotRefresh != "wait_for" {
		t.Fatalf("expected refresh param forwarded, got %q", gotRefresh)
	}
}

func TestRebuildPartial_DeletesThenIngests(t *testing.T) {
	var sawDeleteByQuery, sawBulk bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/kb_chunks_v1/_delete_by_query":
			sawDeleteByQuery = true
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"deleted":3}`))
		case r.URL.Path == "/_bulk":
			sawBulk = true
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"items":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	result, err := RebuildPartial(context.Background(), client, "kb_chunks_v1", map[string]any{"query": map[string]any{"match_all": map[string]any{}}}, []map[string]any{{"content": "y"}}, "")
	if err != nil {
		t.Fatalf("rebuild partial: %v", err)
	}
	if !sawDeleteByQuery || !sawBulk {
		t.Fatalf("expected both delete_by_query and bulk calls, got delete=%v bulk=%v", sawDeleteByQuery, sawBulk)
	}
	if result.Ingested != 1 {
		t.Fatalf("expected 1 ingested, got %+v", result)
	}
}
