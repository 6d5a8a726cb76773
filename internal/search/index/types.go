package index

import "github.com/shark8848/knowledge-transformer/internal/domain"

// Op selects one of the Index Control Plane's six operations (spec.md
// §4.H), submitted as a single task on the es_index queue the way the
// original dispatches one of six same-named Celery tasks.
type Op string

const (
	OpCreate         Op = "create"
	OpAliasSwitch    Op = "alias_switch"
	OpBulkIngest     Op = "bulk_ingest"
	OpIngestDocIndex Op = "ingest_docindex"
	OpRebuildFull    Op = "rebuild_full"
	OpRebuildPartial Op = "rebuild_partial"
)

// Request is the task payload for one Index Control Plane operation. Only
// the fields relevant to Op are read; the rest are ignored, mirroring the
// original Celery tasks' independent keyword-argument signatures collapsed
// onto one struct.
type Request struct {
	TaskID string
	Op     Op

	IndexName string
	Overrides *domain.MappingOverrides

	ReadAlias  string
	WriteAlias string
	NewIndex   string
	OldIndex   string

	Docs    []map[string]any
	Refresh string

	SourceAlias   string
	TargetVersion string

	DeleteQuery map[string]any
}

// Result is the task result, a superset of the six operations' differing
// return shapes.
type Result struct {
	TaskID       string
	Status       int
	Index        string
	Ingested     int
	DeleteStatus int
}
