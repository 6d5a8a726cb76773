package index

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildBulkPayload_KeysActionByChunkIDWhenPresent(t *testing.T) {
	docs := []map[string]any{
		{"chunk_id": "c1", "content": "a"},
		{"content": "b"},
	}
	payload, err := buildBulkPayload("kb_chunks_v1", docs)
	if err != nil {
		t.Fatalf("build bulk payload: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 2 action+doc line pairs, got %d lines", len(lines))
	}

	var firstAction map[string]map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &firstAction); err != nil {
		t.Fatalf("decode first action: %v", err)
	}
	if firstAction["index"]["_id"] != "c1" {
		t.Fatalf("expected _id set from chunk_id, got %+v", firstAction)
	}

	var secondAction map[string]map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &secondAction); err != nil {
		t.Fatalf("decode second action: %v", err)
	}
	if _, ok := secondAction["index"]["_id"]; ok {
		t.Fatalf("expected no _id when chunk_id is absent, got %+v", secondAction)
	}
}
