package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shark8848/knowledge-transformer/internal/conversion"
	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Activities implements the meta queue's single named operation.
type Activities struct {
	GatewayFactory conversion.GatewayFactory
	Client         Generator
	Config         Config
	Log            *logger.Logger
}

// EnrichManifest runs on the meta queue: download the manifest, enrich it
// chunk-by-chunk, upload the result, per spec.md §4.G and the original
// implementation's meta.process task.
func (a *Activities) EnrichManifest(ctx context.Context, req EnrichRequest) (EnrichResult, error) {
	gw, bucket, err := a.GatewayFactory.ForJob(ctx, req.StorageOverride)
	if err != nil {
		return EnrichResult{}, fmt.Errorf("enrich_manifest: gateway: %w", err)
	}
	if req.Bucket != "" {
		bucket = req.Bucket
	}

	workDir, err := os.MkdirTemp("", "enrich-"+req.TaskID+"-")
	if err != nil {
		return EnrichResult{}, fmt.Errorf("enrich_manifest: workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	manifestPath, err := gw.Materialize(ctx, domain.FileSpec{ObjectKey: req.ManifestKey}, workDir, bucket)
	if err != nil {
		return EnrichResult{}, fmt.Errorf("enrich_manifest: materialize manifest: %w", err)
	}
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return EnrichResult{}, fmt.Errorf("enrich_manifest: read manifest: %w", err)
	}
	var manifest domain.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return EnrichResult{}, fmt.Errorf("enrich_manifest: decode manifest: %w", err)
	}

	enricher := NewEnricher(a.Client, a.Config, a.Log)
	enricher.Enrich(ctx, &manifest, req.Title)

	outPath := filepath.Join(workDir, "mm-schema.meta.json")
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return EnrichResult{}, fmt.Errorf("enrich_manifest: encode result: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return EnrichResult{}, fmt.Errorf("enrich_manifest: write result: %w", err)
	}

	outputKey := req.OutputKey
	if outputKey == "" {
		outputKey = deriveOutputKey(req.ManifestKey, req.TaskID)
	}
	uploadResult, err := gw.Upload(ctx, bucket, outputKey, outPath, "application/json", 0)
	if err != nil {
		return EnrichResult{}, fmt.Errorf("enrich_manifest: upload result: %w", err)
	}

	return EnrichResult{
		TaskID:    req.TaskID,
		OutputKey: uploadResult.OutputObjectKey,
		OutputURL: uploadResult.DownloadURL,
		Manifest:  manifest,
	}, nil
}

// deriveOutputKey mirrors the original implementation's fallback: swap
// mm-schema.json for mm-schema.meta.json alongside the input, or fall
// back to a fresh meta/<task_id>/ prefix when there's no manifest key to
// derive from.
func deriveOutputKey(manifestKey, taskID string) string {
	if manifestKey == "" {
		return fmt.Sprintf("meta/%s/mm-schema.meta.json", taskID)
	}
	dir := filepath.Dir(manifestKey)
	if dir == "." {
		return "mm-schema.meta.json"
	}
	return dir + "/mm-schema.meta.json"
}
