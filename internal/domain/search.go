package domain

// MappingOverrides covers the three whitelisted settings an index mapping
// template may be overridden on (spec.md §3).
type MappingOverrides struct {
	NumberOfShards   *int    `json:"number_of_shards,omitempty"`
	NumberOfReplicas *int    `json:"number_of_replicas,omitempty"`
	RefreshInterval  *string `json:"refresh_interval,omitempty"`
}

// QueryKind selects one of the three search shapes (spec.md §4.I).
type QueryKind string

const (
	QueryText   QueryKind = "text"
	QueryVector QueryKind = "vector"
	QueryHybrid QueryKind = "hybrid"
)

// SearchRequest is the caller-facing search request, normalized before
// dispatch.
type SearchRequest struct {
	Kind              QueryKind                 `json:"kind"`
	QueryText         string                    `json:"query_text,omitempty"`
	QueryVector       []float64                 `json:"query_vector,omitempty"`
	VectorField       string                    `json:"vector_field,omitempty"`
	TextFields        []string                  `json:"text_fields,omitempty"`
	Size              int                       `json:"size,omitempty"`
	NumCandidates     int                       `json:"num_candidates,omitempty"`
	VectorWeightRatio float64                   `json:"vector_weight_ratio,omitempty"`
	PermissionFilters []map[string]interface{} `json:"permission_filters,omitempty"`
	Filters           []map[string]interface{} `json:"filters,omitempty"`
}

// TaskState mirrors the three-way worker state a search/conversion task can
// be polled into.
type TaskState string

const (
	TaskPending TaskState = "PENDING"
	TaskSuccess TaskState = "SUCCESS"
	TaskFailure TaskState = "FAILURE"
)
