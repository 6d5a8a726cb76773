package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/search"
)

// RebuildFullResult mirrors rebuild_full_task's {"status": "scheduled",
// "index": new_index} shape. Streaming the source alias's documents into
// the new index is out of scope (spec.md §4.H names it a placeholder in
// the original); callers re-ingest via bulk_ingest/ingest_docindex after.
type RebuildFullResult struct {
	Index string
}

// RebuildFull creates a new versioned index (<base>_<version>) and
// alias-switches onto it, grounded on rebuild_full_task.
func RebuildFull(ctx context.Context, client *search.Client, cfg search.Config, sourceAlias, targetVersion string, overrides *domain.MappingOverrides) (RebuildFullResult, error) {
	if targetVersion == "" {
		targetVersion = "v2"
	}
	newIndex := cfg.BaseIndex + "_" + targetVersion
	if strings.HasSuffix(cfg.BaseIndex, targetVersion) {
		newIndex = cfg.BaseIndex
	}

	body, err := Render(cfg.MappingPath, overrides)
	if err != nil {
		return RebuildFullResult{}, fmt.Errorf("rebuild full: %w", err)
	}
	if err := Create(ctx, client, newIndex, body); err != nil {
		return RebuildFullResult{}, fmt.Errorf("rebuild full: %w", err)
	}
	if err := AliasSwitch(ctx, client, cfg.ReadAlias, cfg.WriteAlias, newIndex, sourceAlias); err != nil {
		return RebuildFullResult{}, fmt.Errorf("rebuild full: %w", err)
	}
	return RebuildFullResult{Index: newIndex}, nil
}

// RebuildPartialResult mirrors rebuild_partial_task's return shape.
type RebuildPartialResult struct {
	DeleteStatus int
	Ingested     int
}

// RebuildPartial deletes documents matching query, then bulk-ingests the
// replacement docs, grounded on rebuild_partial_task.
func RebuildPartial(ctx context.Context, client *search.Client, indexName string, query map[string]any, docs []map[string]any, refresh string) (RebuildPartialResult, error) {
	deleteResp, err := client.Post(ctx, indexName+"/_delete_by_query", query, nil)
	if err != nil {
		return RebuildPartialResult{}, fmt.Errorf("rebuild partial delete_by_query: %w", err)
	}
	if !deleteResp.OK() {
		return RebuildPartialResult{}, search.StatusError("rebuild partial delete_by_query", deleteResp)
	}

	ingestResult, err := BulkIngest(ctx, client, indexName, docs, refresh)
	if err != nil {
		return RebuildPartialResult{}, fmt.Errorf("rebuild partial bulk ingest: %w", err)
	}
	return RebuildPartialResult{DeleteStatus: deleteResp.Status, Ingested: ingestResult.Ingested}, nil
}
