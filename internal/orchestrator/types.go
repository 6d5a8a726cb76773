package orchestrator

import (
	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// PipelineRequest is the orchestrator's entry payload for a multi-file job
// (spec.md §4.E).
type PipelineRequest struct {
	JobID           string                  `json:"job_id"`
	Priority        domain.Priority         `json:"priority"`
	StorageOverride *domain.StorageOverride `json:"storage_override,omitempty"`
	Files           []domain.FileSpec       `json:"files"`
	EmitCandidates  bool                    `json:"emit_candidates,omitempty"`
}

// PipelineResult is the full conversion+probe outcome returned by sync mode
// or discoverable by job id in async mode (spec.md §6
// "POST /api/v1/pipeline/recommend").
type PipelineResult struct {
	JobID          string                    `json:"job_id"`
	Conversion     ConversionBatchResult     `json:"conversion"`
	Profile        *domain.Profile           `json:"profile,omitempty"`
	Recommendation *domain.Recommendation    `json:"recommendation,omitempty"`
}

// ConversionBatchResult wraps the ordered per-file results of one batch.
type ConversionBatchResult struct {
	Results []domain.ConversionResult `json:"results"`
}
