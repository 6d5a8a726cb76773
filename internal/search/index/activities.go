package index

import (
	"context"
	"fmt"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
	"github.com/shark8848/knowledge-transformer/internal/search"
)

// Activities groups the Index Control Plane's one Temporal activity and its
// collaborators, mirroring internal/enrich.Activities' shape.
type Activities struct {
	Client *search.Client
	Config search.Config
	Log    *logger.Logger
}

// ExecuteIndexOperation dispatches one of the six operations spec.md §4.H
// names, all funneled through a single activity since each is a single
// bounded HTTP call rather than a multi-stage pipeline.
func (a *Activities) ExecuteIndexOperation(ctx context.Context, req Request) (Result, error) {
	switch req.Op {
	case OpCreate:
		return a.create(ctx, req)
	case OpAliasSwitch:
		return a.aliasSwitch(ctx, req)
	case OpBulkIngest:
		return a.bulkIngest(ctx, req)
	case OpIngestDocIndex:
		return a.ingestDocIndex(ctx, req)
	case OpRebuildFull:
		return a.rebuildFull(ctx, req)
	case OpRebuildPartial:
		return a.rebuildPartial(ctx, req)
	default:
		return Result{}, fmt.Errorf("index operation: unknown op %q", req.Op)
	}
}

func (a *Activities) create(ctx context.Context, req Request) (Result, error) {
	target := req.IndexName
	if target == "" {
		target = a.Config.DefaultIndex
	}
	body, err := Render(a.Config.MappingPath, req.Overrides)
	if err != nil {
		return Result{}, fmt.Errorf("create index: %w", err)
	}
	a.Log.Info("creating index", "index", target)
	if err := Create(ctx, a.Client, target, body); err != nil {
		return Result{}, err
	}
	return Result{TaskID: req.TaskID, Status: 200, Index: target}, nil
}

func (a *Activities) aliasSwitch(ctx context.Context, req Request) (Result, error) {
	readAlias := firstNonEmpty(req.ReadAlias, a.Config.ReadAlias)
	writeAlias := firstNonEmpty(req.WriteAlias, a.Config.WriteAlias)
	if err := AliasSwitch(ctx, a.Client, readAlias, writeAlias, req.NewIndex, req.OldIndex); err != nil {
		return Result{}, err
	}
	return Result{TaskID: req.TaskID, Status: 200, Index: req.NewIndex}, nil
}

func (a *Activities) bulkIngest(ctx context.Context, req Request) (Result, error) {
	target := firstNonEmpty(req.IndexName, a.Config.WriteAlias, a.Config.DefaultIndex)
	result, err := BulkIngest(ctx, a.Client, target, req.Docs, req.Refresh)
	if err != nil {
		return Result{}, err
	}
	return Result{TaskID: req.TaskID, Status: result.Status, Index: target, Ingested: result.Ingested}, nil
}

func (a *Activities) ingestDocIndex(ctx context.Context, req Request) (Result, error) {
	target := firstNonEmpty(req.IndexName, a.Config.WriteAlias, a.Config.DefaultIndex)
	result, err := IngestDocIndex(ctx, a.Client, target, req.Docs, req.Refresh)
	if err != nil {
		return Result{}, err
	}
	return Result{TaskID: req.TaskID, Status: result.Status, Index: target, Ingested: result.Ingested}, nil
}

func (a *Activities) rebuildFull(ctx context.Context, req Request) (Result, error) {
	result, err := RebuildFull(ctx, a.Client, a.Config, req.SourceAlias, req.TargetVersion, req.Overrides)
	if err != nil {
		return Result{}, err
	}
	return Result{TaskID: req.TaskID, Status: 200, Index: result.Index}, nil
}

func (a *Activities) rebuildPartial(ctx context.Context, req Request) (Result, error) {
	target := firstNonEmpty(req.IndexName, a.Config.WriteAlias, a.Config.DefaultIndex)
	result, err := RebuildPartial(ctx, a.Client, target, req.DeleteQuery, req.Docs, req.Refresh)
	if err != nil {
		return Result{}, err
	}
	return Result{TaskID: req.TaskID, Index: target, Ingested: result.Ingested, DeleteStatus: result.DeleteStatus}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
