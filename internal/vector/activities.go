package vector

import (
	"context"
	"fmt"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Activities groups the vector queue's one Temporal activity and its
// collaborator, mirroring internal/search/index.Activities' shape.
type Activities struct {
	Client Client
	Config Config
	Log    *logger.Logger
}

// ExecuteVectorOperation dispatches embed or rerank, both funneled through
// a single activity since each is one bounded HTTP call.
func (a *Activities) ExecuteVectorOperation(ctx context.Context, req Request) (Result, error) {
	switch req.Op {
	case OpEmbed:
		return a.embed(ctx, req)
	case OpRerank:
		return a.rerank(ctx, req)
	default:
		return Result{}, fmt.Errorf("vector operation: unknown op %q", req.Op)
	}
}

func (a *Activities) embed(ctx context.Context, req Request) (Result, error) {
	model := req.Model
	if model == "" {
		model = a.Config.EmbedModel
	}
	result, err := a.Client.Embed(ctx, req.Inputs, model)
	if err != nil {
		return Result{}, err
	}
	return Result{TaskID: req.TaskID, EmbedModel: result.Model, Embeddings: result.Data, Usage: result.Usage}, nil
}

func (a *Activities) rerank(ctx context.Context, req Request) (Result, error) {
	model := req.Model
	if model == "" {
		model = a.Config.RerankModel
	}
	ranked, err := a.Client.Rerank(ctx, req.Query, req.Passages, req.TopK, model)
	if err != nil {
		return Result{}, err
	}
	return Result{TaskID: req.TaskID, Ranked: ranked}, nil
}
