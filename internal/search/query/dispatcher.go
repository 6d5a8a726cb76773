// Package query implements the Search Dispatcher (spec.md §4.I): text,
// vector, and hybrid query composition over the read alias. Grounded on
// _examples/original_source/src/es_search_service/clients.py's
// text_search/vector_search/hybrid_search.
package query

import (
	"context"
	"fmt"

	"github.com/shark8848/knowledge-transformer/internal/search"
)

// Filters builds the combined filter clause list, permission filters first
// so access control evaluates before scoring (spec.md §4.I, grounded on
// ESClient._build_filters's comment "permission_filters 被优先加入，确保
// 访问控制在评分前生效").
func Filters(permissionFilters, filters []map[string]any) []map[string]any {
	combined := make([]map[string]any, 0, len(permissionFilters)+len(filters))
	for _, f := range permissionFilters {
		if f != nil {
			combined = append(combined, f)
		}
	}
	for _, f := range filters {
		if f != nil {
			combined = append(combined, f)
		}
	}
	return combined
}

// TextRequest is the text query's parameters, grounded on text_search_task.
type TextRequest struct {
	Index             string
	Query             string
	Fields            []string
	Filters           []map[string]any
	PermissionFilters []map[string]any
	Size              int
	From              int
	HighlightFields   []string
	Source            []string
}

// TextSearch composes a bool.must multi_match query with permission-first
// filters and POSTs it to <index>/_search, grounded on ESClient.text_search.
func TextSearch(ctx context.Context, client *search.Client, cfg search.Config, req TextRequest) (search.Response, error) {
	fields := req.Fields
	if len(fields) == 0 {
		fields = cfg.TextFields
	}

	boolQuery := map[string]any{
		"must": []map[string]any{
			{
				"multi_match": map[string]any{
					"query":  req.Query,
					"fields": fields,
					"type":   "best_fields",
				},
			},
		},
	}
	if clauses := Filters(req.PermissionFilters, req.Filters); len(clauses) > 0 {
		boolQuery["filter"] = clauses
	}

	body := map[string]any{
		"from":  req.From,
		"size":  req.Size,
		"query": map[string]any{"bool": boolQuery},
	}
	if len(req.HighlightFields) > 0 {
		highlight := make(map[string]any, len(req.HighlightFields))
		for _, f := range req.HighlightFields {
			highlight[f] = map[string]any{}
		}
		body["highlight"] = map[string]any{"fields": highlight}
	}
	if req.Source != nil {
		body["_source"] = req.Source
	}

	index := firstNonEmpty(req.Index, cfg.ReadAlias, cfg.DefaultIndex)
	resp, err := client.Post(ctx, index+"/_search", body, nil)
	if err != nil {
		return search.Response{}, fmt.Errorf("text search: %w", err)
	}
	if !resp.OK() {
		return search.Response{}, search.StatusError("text search", resp)
	}
	return resp, nil
}

// VectorRequest is the k-NN query's parameters, grounded on vector_search_task.
type VectorRequest struct {
	Index             string
	QueryVector       []float64
	VectorField       string
	Size              int
	NumCandidates     int
	Filters           []map[string]any
	PermissionFilters []map[string]any
	Source            []string
}

// VectorSearch composes a k-NN query, grounded on ESClient.vector_search.
func VectorSearch(ctx context.Context, client *search.Client, cfg search.Config, req VectorRequest) (search.Response, error) {
	field := firstNonEmpty(req.VectorField, cfg.VectorField)
	numCandidates := req.NumCandidates
	if numCandidates == 0 {
		numCandidates = cfg.DefaultNumCandidates
	}

	knn := map[string]any{
		"field":          field,
		"query_vector":   req.QueryVector,
		"k":              req.Size,
		"num_candidates": numCandidates,
	}
	if clauses := Filters(req.PermissionFilters, req.Filters); len(clauses) > 0 {
		knn["filter"] = map[string]any{"bool": map[string]any{"filter": clauses}}
	}

	body := map[string]any{"size": req.Size, "knn": knn}
	if req.Source != nil {
		body["_source"] = req.Source
	}

	index := firstNonEmpty(req.Index, cfg.ReadAlias, cfg.DefaultIndex)
	resp, err := client.Post(ctx, index+"/_search", body, nil)
	if err != nil {
		return search.Response{}, fmt.Errorf("vector search: %w", err)
	}
	if !resp.OK() {
		return search.Response{}, search.StatusError("vector search", resp)
	}
	return resp, nil
}

// HybridRequest is the hybrid query's parameters, grounded on
// hybrid_search_task. TextWeight/VectorWeight are already normalized to
// (1-r, r) by the caller boundary (spec.md §4.I); NormalizeWeights below
// performs that normalization for HTTP handlers that only collect a ratio.
type HybridRequest struct {
	Index             string
	Query             string
	QueryVector       []float64
	Fields            []string
	VectorField       string
	TextWeight        float64
	VectorWeight      float64
	Size              int
	From              int
	Filters           []map[string]any
	PermissionFilters []map[string]any
	Source            []string
}

// NormalizeWeights converts the UI's single [0,1] ratio into the
// (text_weight, vector_weight) = (1-r, r) pair spec.md §4.I names.
func NormalizeWeights(ratio float64) (textWeight, vectorWeight float64) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return 1 - ratio, ratio
}

// HybridSearch composes a script_score query wrapping the text bool query,
// scoring by cosineSimilarity(vector)*vector_weight + _score*text_weight,
// grounded on ESClient.hybrid_search.
func HybridSearch(ctx context.Context, client *search.Client, cfg search.Config, req HybridRequest) (search.Response, error) {
	fields := req.Fields
	if len(fields) == 0 {
		fields = cfg.TextFields
	}
	field := firstNonEmpty(req.VectorField, cfg.VectorField)

	boolQuery := map[string]any{
		"must": []map[string]any{
			{
				"multi_match": map[string]any{
					"query":  req.Query,
					"fields": fields,
					"type":   "best_fields",
				},
			},
		},
	}
	if clauses := Filters(req.PermissionFilters, req.Filters); len(clauses) > 0 {
		boolQuery["filter"] = clauses
	}

	body := map[string]any{
		"from": req.From,
		"size": req.Size,
		"query": map[string]any{
			"script_score": map[string]any{
				"query": map[string]any{"bool": boolQuery},
				"script": map[string]any{
					"source": "cosineSimilarity(params.vector, params.field) * params.vector_weight + _score * params.text_weight",
					"params": map[string]any{
						"vector":        req.QueryVector,
						"field":         field,
						"vector_weight": req.VectorWeight,
						"text_weight":   req.TextWeight,
					},
				},
			},
		},
	}
	if req.Source != nil {
		body["_source"] = req.Source
	}

	index := firstNonEmpty(req.Index, cfg.ReadAlias, cfg.DefaultIndex)
	resp, err := client.Post(ctx, index+"/_search", body, nil)
	if err != nil {
		return search.Response{}, fmt.Errorf("hybrid search: %w", err)
	}
	if !resp.OK() {
		return search.Response{}, search.StatusError("hybrid search", resp)
	}
	return resp, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
