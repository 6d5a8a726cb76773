package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// textualSourceFormats is spec.md §4.E step 1's "prefer markdown" rule
// trigger set.
var textualSourceFormats = map[string]bool{
	"html": true, "txt": true, "text": true, "md": true, "markdown": true,
	"xlsx": true, "xls": true,
}

// normalizeFiles applies spec.md §4.E step 1: lowercase every
// source_format, then rewrite target to md when the source is textual and
// the target was pdf.
func normalizeFiles(files []domain.FileSpec) []domain.FileSpec {
	out := make([]domain.FileSpec, len(files))
	for i, f := range files {
		f.SourceFormat = strings.ToLower(strings.TrimSpace(f.SourceFormat))
		f.TargetFormat = strings.ToLower(strings.TrimSpace(f.TargetFormat))
		if textualSourceFormats[f.SourceFormat] && f.TargetFormat == "pdf" {
			f.TargetFormat = "md"
		}
		out[i] = f
	}
	return out
}

// isPassthroughBatch implements spec.md §4.E step 2: true only when every
// file is pdf->pdf with an existing object_key.
func isPassthroughBatch(files []domain.FileSpec) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if f.SourceFormat != "pdf" || f.TargetFormat != "pdf" || f.ObjectKey == "" {
			return false
		}
	}
	return true
}

func stubConversionResult(f domain.FileSpec) domain.ConversionResult {
	return domain.ConversionResult{
		Source:          f.SourceFormat,
		Target:          f.TargetFormat,
		Status:          domain.StatusSuccess,
		OutputObjectKey: f.ObjectKey,
		Metadata:        map[string]interface{}{"note": "passthrough pdf"},
	}
}

// Workflow implements the conversion->pipeline->probe chain named
// WorkflowConversionExtractAndProbe (spec.md §4.E), crossing from the
// conversion queue to the pipeline queue to the probe queue — the
// orchestrator is the only component permitted to do so. Modeled on the
// teacher's jobrun.Workflow activity-options setup, simplified from an
// open-ended tick loop to a bounded three-stage chain since this workflow
// has a fixed, known shape rather than arbitrary job state.
func Workflow(ctx workflow.Context, req PipelineRequest) (PipelineResult, error) {
	req.Files = normalizeFiles(req.Files)

	var conversionResult ConversionBatchResult
	if isPassthroughBatch(req.Files) {
		results := make([]domain.ConversionResult, 0, len(req.Files))
		for _, f := range req.Files {
			results = append(results, stubConversionResult(f))
		}
		conversionResult = ConversionBatchResult{Results: results}
	} else {
		convCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
			TaskQueue:           QueueConversion,
			StartToCloseTimeout: 30 * time.Minute,
		})
		if err := workflow.ExecuteActivity(convCtx, ActivityHandleConversionBatch, req).Get(convCtx, &conversionResult); err != nil {
			return PipelineResult{}, fmt.Errorf("conversion batch: %w", err)
		}
	}

	pipelineCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueuePipeline,
		StartToCloseTimeout: 10 * time.Minute,
	})
	var extracted ExtractAndProbeOutput
	extractInput := ExtractAndProbeInput{
		JobID:           req.JobID,
		StorageOverride: req.StorageOverride,
		Conversion:      conversionResult,
		EmitCandidates:  req.EmitCandidates,
	}
	if err := workflow.ExecuteActivity(pipelineCtx, ActivityExtractAndProbe, extractInput).Get(pipelineCtx, &extracted); err != nil {
		return PipelineResult{}, fmt.Errorf("extract and probe: %w", err)
	}

	probeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           QueueProbe,
		StartToCloseTimeout: 5 * time.Minute,
	})
	var profiles []domain.Profile
	if err := workflow.ExecuteActivity(probeCtx, ActivityExtractSignals, extracted).Get(probeCtx, &profiles); err != nil {
		return PipelineResult{}, fmt.Errorf("extract signals: %w", err)
	}
	var recommendation domain.Recommendation
	if err := workflow.ExecuteActivity(probeCtx, ActivityRecommendStrategy, extracted).Get(probeCtx, &recommendation); err != nil {
		return PipelineResult{}, fmt.Errorf("recommend strategy: %w", err)
	}

	result := PipelineResult{
		JobID:          req.JobID,
		Conversion:     conversionResult,
		Recommendation: &recommendation,
	}
	if len(profiles) > 0 {
		result.Profile = &profiles[0]
	}
	return result, nil
}
