package query

import "github.com/shark8848/knowledge-transformer/internal/domain"

// Request is one dispatcher task payload, composing domain.SearchRequest
// with the task/index identifiers the HTTP route and Temporal activity need.
type Request struct {
	TaskID string
	Index  string
	domain.SearchRequest
}

// Result is the task result: the raw ES response body plus enough status
// to translate into spec.md §4.I's {PENDING, SUCCESS, FAILURE} polling
// states.
type Result struct {
	TaskID string
	Status int
	Body   any
}
