package domain

// Segment is one time-bounded slice of a video, with 0 <= start < end <=
// total_duration (spec.md §3).
type Segment struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Keyframe is one extracted still with its optional vision caption.
type Keyframe struct {
	Timestamp   float64 `json:"timestamp"`
	URL         string  `json:"url"`
	Description string  `json:"description,omitempty"`
}

// TextContent carries the ASR/caption-derived text for a chunk.
type TextContent struct {
	FullText string        `json:"full_text,omitempty"`
	Segments []ASRSegment  `json:"segments,omitempty"`
}

// ASRSegment is one timestamped transcript fragment.
type ASRSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ChunkContent groups the text/audio/video sub-objects of one chunk.
type ChunkContent struct {
	Text  TextContent `json:"text"`
	Audio MediaRef    `json:"audio"`
	Video MediaRef    `json:"video"`
}

// MediaRef points at one sliced artifact in object storage.
type MediaRef struct {
	URL      string  `json:"url,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// ChunkTemporal is the time span a chunk covers within the source media.
type ChunkTemporal struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ChunkProcessing records per-chunk processing diagnostics (partial ASR/
// vision failures degrade here without failing the job).
type ChunkProcessing struct {
	ASRError    string `json:"asr_error,omitempty"`
	VisionError string `json:"vision_error,omitempty"`
}

// ExtractionMetadata is the LLM-derived enrichment attached per chunk and,
// aggregated, at the document level (spec.md §3, §4.G).
type ExtractionMetadata struct {
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags"`
	Keywords  []string `json:"keywords"`
	Questions []string `json:"questions"`
}

// ChunkMetadata wraps the optional per-chunk enrichment result.
type ChunkMetadata struct {
	Extraction *ExtractionMetadata `json:"extraction,omitempty"`
}

// Chunk is one element of a Manifest's chunks array.
type Chunk struct {
	ChunkIndex int             `json:"chunk_index"`
	Temporal   ChunkTemporal   `json:"temporal"`
	Content    ChunkContent    `json:"content"`
	Keyframes  []Keyframe      `json:"keyframes"`
	Processing ChunkProcessing `json:"processing"`
	Metadata   ChunkMetadata   `json:"metadata,omitempty"`
}

// DocumentSummary carries manifest-level highlights.
type DocumentSummary struct {
	KeyPoints []string `json:"key_points,omitempty"`
}

// DocumentMetadata is the manifest-level metadata block, including the
// document-level aggregated enrichment added by the Metadata Enricher.
type DocumentMetadata struct {
	Summary    DocumentSummary     `json:"document_summary,omitempty"`
	Extraction *ExtractionMetadata `json:"extraction,omitempty"`
}

// Manifest is the mm-schema root document (spec.md §3), stored at
// mm/video/<task_id>/json/mm-schema.json.
type Manifest struct {
	DocumentID       string           `json:"document_id"`
	KBID             string           `json:"kb_id"`
	KBType           string           `json:"kb_type"`
	DocumentMetadata DocumentMetadata `json:"document_metadata"`
	Chunks           []Chunk          `json:"chunks"`
}
