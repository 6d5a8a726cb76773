// Package conversion implements the Conversion Worker (spec.md §4.C):
// consumes conversion jobs, applies per-job storage overrides, writes
// results, emits metrics. Per-file pipeline shape (validate -> passthrough/
// convert -> dual upload -> URL compose -> metric) is grounded on the
// teacher's internal/ingestion/pipeline/pipeline.go ExtractAndPersist
// orchestration (switch-on-kind, warnings accumulation, diagnostics merge),
// adapted here to conversion instead of extraction.
package conversion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/objectstore"
	"github.com/shark8848/knowledge-transformer/internal/platform/ctxutil"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

// Config is the process-wide conversion worker configuration (RAG_* prefix
// per spec.md §6).
type Config struct {
	DefaultBucket      string
	PresignExpiry      time.Duration
	TestArtifactsDir    string // optional, copies outputs here when set
	WorkDirRoot        string
}

// Worker executes the per-file conversion pipeline.
type Worker struct {
	cfg       Config
	registry  *plugins.Registry
	converter *plugins.Service
	gatewayFactory GatewayFactory
	metrics   *Metrics
	log       *logger.Logger
}

// GatewayFactory builds a Gateway for a job, honoring its storage override
// when present (spec.md §4.C "Per-job storage override").
type GatewayFactory interface {
	ForJob(ctx context.Context, override *domain.StorageOverride) (*objectstore.Gateway, string, error)
}

func NewWorker(cfg Config, registry *plugins.Registry, converter *plugins.Service, gatewayFactory GatewayFactory, metrics *Metrics, log *logger.Logger) *Worker {
	return &Worker{
		cfg:            cfg,
		registry:       registry,
		converter:      converter,
		gatewayFactory: gatewayFactory,
		metrics:        metrics,
		log:            log.With("component", "conversion_worker"),
	}
}

// HandleBatch processes every file in a job sequentially, preserving input
// order (spec.md §5 ordering guarantee).
func (w *Worker) HandleBatch(ctx context.Context, job domain.ConversionJob) ([]domain.ConversionResult, error) {
	ctx = ctxutil.Default(ctx)
	ctx = ctxutil.WithJobID(ctx, job.JobID)

	gw, bucket, err := w.gatewayFactory.ForJob(ctx, job.StorageOverride)
	if err != nil {
		return nil, fmt.Errorf("construct gateway for job %s: %w", job.JobID, err)
	}

	workDir := filepath.Join(w.workDirRoot(), job.JobID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create job workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	results := make([]domain.ConversionResult, 0, len(job.Files))
	for i, file := range job.Files {
		result := w.handleFile(ctx, gw, bucket, workDir, job.JobID, i, file)
		results = append(results, result)
		w.metrics.RecordFile(string(result.Status))
	}
	return results, nil
}

func (w *Worker) workDirRoot() string {
	if w.cfg.WorkDirRoot != "" {
		return w.cfg.WorkDirRoot
	}
	return os.TempDir()
}

func (w *Worker) handleFile(ctx context.Context, gw *objectstore.Gateway, bucket, workDir, jobID string, index int, file domain.FileSpec) domain.ConversionResult {
	source := normalize(file.SourceFormat)
	target := normalize(file.TargetFormat)

	fileWorkDir := filepath.Join(workDir, fmt.Sprintf("file_%d", index))
	inputPath, err := gw.Materialize(ctx, file, fileWorkDir, bucket)
	if err != nil {
		return domain.ConversionResult{
			Source: source, Target: target, Status: domain.StatusFailed,
			Reason: fmt.Sprintf("input preparation failed (locator=%s): %v", locatorOf(file), err),
		}
	}

	if plugins.IsPassthrough(source, target) {
		return w.uploadPassthrough(ctx, gw, bucket, jobID, source, target, inputPath)
	}

	conv, ok := w.registry.Lookup(source, target)
	if !ok {
		if target == source || target == "" {
			return w.uploadPassthrough(ctx, gw, bucket, jobID, source, target, inputPath)
		}
		return domain.ConversionResult{
			Source: source, Target: target, Status: domain.StatusFailed,
			Reason: fmt.Sprintf("unsupported format: no plugin registered for %s->%s (locator=%s)", source, target, locatorOf(file)),
		}
	}
	_ = conv

	outputPath, meta, err := w.convert(ctx, fileWorkDir, source, target, inputPath, file)
	if err != nil {
		return domain.ConversionResult{
			Source: source, Target: target, Status: domain.StatusFailed,
			Reason: fmt.Sprintf("conversion failed: %v", err),
		}
	}

	return w.finalizeUpload(ctx, gw, bucket, jobID, source, target, outputPath, meta)
}

func (w *Worker) convert(ctx context.Context, workDir, source, target, inputPath string, file domain.FileSpec) (string, map[string]interface{}, error) {
	meta := map[string]interface{}{}
	if file.PageLimit > 0 {
		meta["page_limit"] = file.PageLimit
	}
	if file.DurationSeconds > 0 {
		meta["duration_seconds"] = file.DurationSeconds
	}

	cctx := plugins.ConvertContext{Ctx: ctx, Log: w.log, WorkDir: workDir}
	result, err := w.converter.Convert(cctx, domain.ConversionInput{
		SourceFormat: source,
		TargetFormat: target,
		InputPath:    inputPath,
		Metadata:     meta,
	})
	if err != nil {
		return "", nil, err
	}
	outputPath, _ := result.Metadata["local_output_path"].(string)
	if outputPath == "" {
		return "", nil, fmt.Errorf("converter did not report an output path")
	}
	return outputPath, result.Metadata, nil
}

func (w *Worker) uploadPassthrough(ctx context.Context, gw *objectstore.Gateway, bucket, jobID, source, target, inputPath string) domain.ConversionResult {
	if target == "" {
		target = source
	}
	key := fmt.Sprintf("converted/%s/%s", jobID, filepath.Base(inputPath))
	result, err := gw.Upload(ctx, bucket, key, inputPath, "", w.cfg.PresignExpiry)
	if err != nil {
		return domain.ConversionResult{
			Source: source, Target: target, Status: domain.StatusFailed,
			Reason: fmt.Sprintf("upload failed: %v", err),
		}
	}
	result.Source = source
	result.Target = target
	result.Status = domain.StatusSuccess
	result.Metadata = map[string]interface{}{"passthrough": true}
	w.copyTestArtifact(inputPath, jobID)
	return result
}

func (w *Worker) finalizeUpload(ctx context.Context, gw *objectstore.Gateway, bucket, jobID, source, target, outputPath string, meta map[string]interface{}) domain.ConversionResult {
	key := fmt.Sprintf("converted/%s/%s", jobID, filepath.Base(outputPath))
	result, err := gw.Upload(ctx, bucket, key, outputPath, "", w.cfg.PresignExpiry)
	if err != nil {
		return domain.ConversionResult{
			Source: source, Target: target, Status: domain.StatusFailed,
			Reason: fmt.Sprintf("upload failed: %v", err),
		}
	}
	result.Source = source
	result.Target = target
	result.Status = domain.StatusSuccess
	if meta == nil {
		meta = map[string]interface{}{}
	}
	delete(meta, "local_output_path")
	result.Metadata = meta
	w.copyTestArtifact(outputPath, jobID)
	return result
}

// copyTestArtifact implements spec.md §4.C step 7 ("Optionally copy the
// output into a test-artifacts directory when that mode is active").
func (w *Worker) copyTestArtifact(path, jobID string) {
	if w.cfg.TestArtifactsDir == "" {
		return
	}
	destDir := filepath.Join(w.cfg.TestArtifactsDir, jobID)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		w.log.Warn("test artifact mkdir failed", "error", err)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn("test artifact read failed", "error", err)
		return
	}
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		w.log.Warn("test artifact write failed", "error", err)
	}
}

func normalize(f string) string { return strings.ToLower(strings.TrimSpace(f)) }

func locatorOf(f domain.FileSpec) string {
	switch {
	case f.RemoteURL != "":
		return f.RemoteURL
	case f.ObjectKey != "":
		return f.ObjectKey
	case f.AttachID != "":
		return f.AttachID
	case f.LocalPath != "":
		return f.LocalPath
	default:
		return "inline:" + uuid.NewString()
	}
}
