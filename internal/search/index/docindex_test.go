package index

import "testing"

func TestTransformDocIndex_MapsKnownFields(t *testing.T) {
	raw := map[string]any{
		"zj_id":      "Z1",
		"docid":      "D1",
		"item_value": "hello world",
		"group_id":   "C1",
		"unknown_field": "dropped",
	}
	out := TransformDocIndex(raw)
	if out["primary_id"] != "Z1" || out["knowledge_id"] != "D1" || out["content"] != "hello world" || out["chunk_id"] != "C1" {
		t.Fatalf("expected known fields translated, got %+v", out)
	}
	if _, ok := out["unknown_field"]; ok {
		t.Fatalf("expected untranslatable field dropped, got %+v", out)
	}
}

func TestTransformDocIndex_SkipsEmbeddingOnBadVector(t *testing.T) {
	raw := map[string]any{"item_value_vector": "not-a-vector-###"}
	out := TransformDocIndex(raw)
	if _, ok := out["embedding"]; ok {
		t.Fatalf("expected embedding skipped on coercion failure, got %+v", out)
	}
}

func TestTransformDocIndex_YieldsEmptyWhenNothingTranslates(t *testing.T) {
	out := TransformDocIndex(map[string]any{"totally_unknown": 1})
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %+v", out)
	}
}

func TestCoerceVector_AcceptsJSONArray(t *testing.T) {
	vec, ok := CoerceVector([]any{1.0, 2.5, 3.0})
	if !ok || len(vec) != 3 || vec[1] != 2.5 {
		t.Fatalf("expected vector coerced from []any, got %v ok=%v", vec, ok)
	}
}

func TestCoerceVector_AcceptsJSONEncodedString(t *testing.T) {
	vec, ok := CoerceVector(`[1, 2, 3]`)
	if !ok || len(vec) != 3 {
		t.Fatalf("expected vector parsed from JSON string, got %v ok=%v", vec, ok)
	}
}

func TestCoerceVector_AcceptsDelimitedString(t *testing.T) {
	vec, ok := CoerceVector("1.5, 2.5; 3.5")
	if !ok || len(vec) != 3 || vec[2] != 3.5 {
		t.Fatalf("expected vector parsed from delimited string, got %v ok=%v", vec, ok)
	}
}

func TestCoerceVector_RejectsGarbage(t *testing.T) {
	if _, ok := CoerceVector("not a vector at all"); ok {
		t.Fatalf("expected garbage string to fail coercion")
	}
	if _, ok := CoerceVector(nil); ok {
		t.Fatalf("expected nil to fail coercion")
	}
}

func TestIngestDocIndex_DropsDocsThatTranslateToNothing(t *testing.T) {
	docs := []map[string]any{
		{"zj_id": "Z1"},
		{"totally_unknown": 1},
	}
	transformed := make([]map[string]any, 0)
	for _, d := range docs {
		if mapped := TransformDocIndex(d); len(mapped) > 0 {
			transformed = append(transformed, mapped)
		}
	}
	if len(transformed) != 1 {
		t.Fatalf("expected one doc to survive translation, got %d", len(transformed))
	}
}
