package enrich

import "github.com/shark8848/knowledge-transformer/internal/domain"

// EnrichRequest carries the manifest to enrich, by object key, plus the
// document title the prompt template uses — ported from the original
// implementation's manifest_object_key/manifest_url request shape,
// narrowed to the object-key form this module's gateway already serves.
type EnrichRequest struct {
	TaskID          string                  `json:"task_id"`
	Bucket          string                  `json:"bucket,omitempty"`
	ManifestKey     string                  `json:"manifest_object_key"`
	OutputKey       string                  `json:"output_object_key,omitempty"`
	Title           string                  `json:"title,omitempty"`
	StorageOverride *domain.StorageOverride `json:"storage_override,omitempty"`
}

// EnrichResult is the enrichment outcome, discoverable by task id.
type EnrichResult struct {
	TaskID    string          `json:"task_id"`
	OutputKey string          `json:"output_object_key"`
	OutputURL string          `json:"output_url,omitempty"`
	Manifest  domain.Manifest `json:"manifest"`
}
