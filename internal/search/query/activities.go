package query

import (
	"context"
	"fmt"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
	"github.com/shark8848/knowledge-transformer/internal/search"
)

// Activities groups the Search Dispatcher's one Temporal activity and its
// collaborators, mirroring internal/search/index.Activities' shape.
type Activities struct {
	Client *search.Client
	Config search.Config
	Log    *logger.Logger
}

// DispatchQuery routes req.Kind to text/vector/hybrid search and returns
// the raw response body, grounded on es_search_service/tasks.py's three
// task functions folded into one activity (spec.md §4.I: "each query is
// submitted as a task on the search queue").
func (a *Activities) DispatchQuery(ctx context.Context, req Request) (Result, error) {
	switch req.Kind {
	case domain.QueryText:
		resp, err := TextSearch(ctx, a.Client, a.Config, TextRequest{
			Index:             req.Index,
			Query:             req.QueryText,
			Fields:            req.TextFields,
			Filters:           req.Filters,
			PermissionFilters: req.PermissionFilters,
			Size:              req.Size,
		})
		return a.toResult(req.TaskID, resp, err)

	case domain.QueryVector:
		resp, err := VectorSearch(ctx, a.Client, a.Config, VectorRequest{
			Index:             req.Index,
			QueryVector:       req.QueryVector,
			VectorField:       req.VectorField,
			Size:              req.Size,
			NumCandidates:     req.NumCandidates,
			Filters:           req.Filters,
			PermissionFilters: req.PermissionFilters,
		})
		return a.toResult(req.TaskID, resp, err)

	case domain.QueryHybrid:
		textWeight, vectorWeight := NormalizeWeights(req.VectorWeightRatio)
		resp, err := HybridSearch(ctx, a.Client, a.Config, HybridRequest{
			Index:             req.Index,
			Query:             req.QueryText,
			QueryVector:       req.QueryVector,
			Fields:            req.TextFields,
			VectorField:       req.VectorField,
			TextWeight:        textWeight,
			VectorWeight:      vectorWeight,
			Size:              req.Size,
			Filters:           req.Filters,
			PermissionFilters: req.PermissionFilters,
		})
		return a.toResult(req.TaskID, resp, err)

	default:
		return Result{}, fmt.Errorf("dispatch query: unknown kind %q", req.Kind)
	}
}

func (a *Activities) toResult(taskID string, resp search.Response, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{TaskID: taskID, Status: resp.Status, Body: resp.Body}, nil
}
