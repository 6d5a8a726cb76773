package index

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/search"
)

// docIndexTranslation maps the legacy docIndex payload's field names onto
// the kb_chunks schema, ported verbatim from
// _examples/original_source/src/es_index_service/tasks.py's
// DOCINDEX_TRANSLATION.
var docIndexTranslation = map[string]string{
	"zj_id":             "primary_id",
	"docid":             "knowledge_id",
	"attachId":          "file_id",
	"doctitle":          "title",
	"klg_type":          "knowledge_type",
	"item_value":        "content",
	"item_value_vector": "embedding",
	"item_value_img":    "content_image",
	"item_values":       "content_values",
	"itemvaluess":       "content_values_s",
	"klg_user_ids":      "knowledge_user_ids",
	"klg_role_ids":      "knowledge_role_ids",
	"group_id":          "chunk_id",
	"depar_id":          "department_id",
	"org_id":            "enterprise_id",
	"ep_id":             "tenant_id",
	"ct_id":             "knowledge_base_id",
	"ct_id0":            "kb_tree_id_0",
	"ct_id1":            "kb_tree_id_1",
	"ct_id2":            "kb_tree_id_2",
	"ct_id3":            "kb_tree_id_3",
	"parent_path_id":    "parent_path_id",
	"city_id":           "city_id",
	"up_city_id":        "parent_city_id",
	"doc_status":        "document_status",
	"life_status":       "lifecycle_status",
	"crt_userid":        "created_user_id",
	"tags":              "tags",
	"keywords":          "keywords",
	"summary":           "summary",
	"faq":               "faq",
	"rel_classify_id":   "external_classify_id",
	"rel_klg_id":        "external_knowledge_id",
	"rel_attach_id":     "external_attach_id",
	"attributes":        "attributes",
	"metaData":          "metadata",
	"role":              "visibility_scope",
	"deptPermission":    "permitted_department_ids",
	"userPermission":    "permitted_user_ids",
	"item_type":         "item_type",
}

// CoerceVector tolerantly converts an incoming embedding payload to a float
// slice, grounded on tasks.py's _coerce_vector: accepts a JSON array, a
// JSON-string-encoded array, or a comma/semicolon-delimited string; returns
// ok=false if none of those parse.
func CoerceVector(value any) ([]float64, bool) {
	if value == nil {
		return nil, false
	}
	switch v := value.(type) {
	case []float64:
		return v, true
	case []any:
		return floatsFromAny(v)
	case string:
		var parsed []any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			if out, ok := floatsFromAny(parsed); ok {
				return out, true
			}
		}
		parts := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' })
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, false
			}
			out = append(out, f)
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	default:
		return nil, false
	}
}

func floatsFromAny(items []any) ([]float64, bool) {
	out := make([]float64, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case float64:
			out = append(out, n)
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, false
			}
			out = append(out, f)
		default:
			return nil, false
		}
	}
	return out, true
}

// TransformDocIndex maps one legacy docIndex payload onto kb_chunks schema
// fields, grounded on tasks.py's _transform_doc_index. A value missing from
// raw is skipped; the embedding field is skipped (not dropped-with-error)
// if its vector payload fails to coerce.
func TransformDocIndex(raw map[string]any) map[string]any {
	transformed := make(map[string]any)
	for src, dest := range docIndexTranslation {
		val, ok := raw[src]
		if !ok || val == nil {
			continue
		}
		if dest == "embedding" {
			if vector, ok := CoerceVector(val); ok {
				transformed[dest] = vector
			}
			continue
		}
		transformed[dest] = val
	}
	return transformed
}

// IngestDocIndex translates each doc via TransformDocIndex, drops any doc
// that translates to nothing, and bulk-ingests the remainder, grounded on
// ingest_docindex_task.
func IngestDocIndex(ctx context.Context, client *search.Client, indexName string, docs []map[string]any, refresh string) (BulkResult, error) {
	transformed := make([]map[string]any, 0, len(docs))
	for _, raw := range docs {
		mapped := TransformDocIndex(raw)
		if len(mapped) > 0 {
			transformed = append(transformed, mapped)
		}
	}
	if len(transformed) == 0 {
		return BulkResult{Status: 200, Ingested: 0, Body: map[string]any{"took": 0, "ingested": 0}}, nil
	}

	result, err := BulkIngest(ctx, client, indexName, transformed, refresh)
	if err != nil {
		return BulkResult{}, fmt.Errorf("ingest docindex: %w", err)
	}
	return result, nil
}
