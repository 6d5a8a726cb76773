package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/conversion"
	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/objectstore"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
	"github.com/shark8848/knowledge-transformer/internal/probe"
)

// Activities implements the three named operations spec.md §4.E's workflow
// dispatches across queues: HandleConversionBatch (conversion queue),
// ExtractAndProbe (pipeline queue, materializes converted output into page
// samples), and ExtractSignals/RecommendStrategy (probe queue). Modeled on
// the teacher's jobrun.Activities — a plain struct of dependencies with one
// method per registered activity name.
type Activities struct {
	Worker         *conversion.Worker
	GatewayFactory conversion.GatewayFactory
	SampleConfig   probe.SampleConfig
	StrategyConfig probe.StrategyConfig
	OCR            probe.OCRFallback
	Log            *logger.Logger
}

// HandleConversionBatch runs on QueueConversion.
func (a *Activities) HandleConversionBatch(ctx context.Context, req PipelineRequest) (ConversionBatchResult, error) {
	job := domain.ConversionJob{
		JobID:           req.JobID,
		Priority:        req.Priority,
		StorageOverride: req.StorageOverride,
		Files:           req.Files,
	}
	results, err := a.Worker.HandleBatch(ctx, job)
	if err != nil {
		return ConversionBatchResult{}, fmt.Errorf("handle conversion batch: %w", err)
	}
	return ConversionBatchResult{Results: results}, nil
}

// ExtractAndProbeInput carries the conversion batch's output into the
// pipeline-queue extraction step.
type ExtractAndProbeInput struct {
	JobID           string
	Bucket          string
	StorageOverride *domain.StorageOverride
	Conversion      ConversionBatchResult
	EmitCandidates  bool
}

// ExtractAndProbeOutput is what the pipeline-queue step hands to the
// probe-queue steps.
type ExtractAndProbeOutput struct {
	SourceFormat     string
	Samples          []domain.PageSample
	DetectedSegments int
	EmitCandidates   bool
}

// ExtractAndProbe runs on QueuePipeline: downloads each successful
// conversion result and turns it into page/paragraph samples (spec.md §4.D
// input contract), ready for the probe-queue signal extraction and
// strategy recommendation.
func (a *Activities) ExtractAndProbe(ctx context.Context, in ExtractAndProbeInput) (ExtractAndProbeOutput, error) {
	gw, bucket, err := a.GatewayFactory.ForJob(ctx, in.StorageOverride)
	if err != nil {
		return ExtractAndProbeOutput{}, fmt.Errorf("extract_and_probe: gateway: %w", err)
	}
	if in.Bucket != "" {
		bucket = in.Bucket
	}

	var sourceFormat string
	var samples []domain.PageSample

	workDir, err := os.MkdirTemp("", "probe-"+in.JobID+"-")
	if err != nil {
		return ExtractAndProbeOutput{}, fmt.Errorf("extract_and_probe: workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	for i, result := range in.Conversion.Results {
		if result.Status != domain.StatusSuccess || result.OutputObjectKey == "" {
			continue
		}
		sourceFormat = result.Target

		localPath, err := materializeObjectKey(ctx, gw, bucket, result.OutputObjectKey, filepath.Join(workDir, fmt.Sprintf("out_%d", i)))
		if err != nil {
			a.Log.Warn("extract_and_probe: materialize failed, skipping file", "key", result.OutputObjectKey, "error", err)
			continue
		}

		raw, err := os.ReadFile(localPath)
		if err != nil {
			a.Log.Warn("extract_and_probe: read failed, skipping file", "path", localPath, "error", err)
			continue
		}
		text := string(raw)

		if strings.EqualFold(sourceFormat, "md") || strings.EqualFold(sourceFormat, "markdown") {
			samples = append(samples, probe.SampleMarkdownParagraphs(a.SampleConfig, text)...)
		} else {
			pages := strings.Split(text, "\f")
			sample := probe.SamplePDFPages(a.SampleConfig, pages)
			samples = append(samples, sample)
		}
	}

	return ExtractAndProbeOutput{
		SourceFormat:     sourceFormat,
		Samples:          samples,
		DetectedSegments: 0,
		EmitCandidates:   in.EmitCandidates,
	}, nil
}

func materializeObjectKey(ctx context.Context, gw *objectstore.Gateway, bucket, key, workDir string) (string, error) {
	spec := domain.FileSpec{ObjectKey: key}
	return gw.Materialize(ctx, spec, workDir, bucket)
}

// ExtractSignals runs on QueueProbe: builds a Profile per sample for
// diagnostic visibility ahead of RecommendStrategy.
func (a *Activities) ExtractSignals(ctx context.Context, out ExtractAndProbeOutput) ([]domain.Profile, error) {
	profiles := make([]domain.Profile, 0, len(out.Samples))
	for _, sample := range out.Samples {
		profiles = append(profiles, probe.BuildProfile(sample))
	}
	return profiles, nil
}

// RecommendStrategy runs on QueueProbe: applies the full decision order to
// the extracted samples and returns the final Recommendation.
func (a *Activities) RecommendStrategy(ctx context.Context, out ExtractAndProbeOutput) (domain.Recommendation, error) {
	rec := probe.Recommend(a.StrategyConfig, probe.RecommendInput{
		SourceFormat:     out.SourceFormat,
		Samples:          out.Samples,
		DetectedSegments: out.DetectedSegments,
		EmitCandidates:   out.EmitCandidates,
	})
	return rec, nil
}
