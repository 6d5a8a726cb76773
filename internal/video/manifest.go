package video

import (
	"encoding/json"
	"os"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// ChunkInputs carries everything one segment/chunk needs before it can be
// folded into the manifest (spec.md §4.F stage 9).
type ChunkInputs struct {
	Segment    domain.Segment
	AudioURL   string
	VideoURL   string
	Transcript domain.ASRSegment
	Keyframes  []domain.Keyframe
}

// BuildManifest assembles the mm-schema root document: each chunk carries
// text.full_text, the per-ASR segment, audio+video URLs, and the ordered
// keyframes with descriptions; document_summary.key_points holds up to 5
// frame@<ts> tokens (spec.md §3, §4.F stage 9).
func BuildManifest(documentID, kbID, kbType string, chunks []ChunkInputs) domain.Manifest {
	out := make([]domain.Chunk, 0, len(chunks))
	var allKeyframes []domain.Keyframe

	for i, c := range chunks {
		allKeyframes = append(allKeyframes, c.Keyframes...)
		out = append(out, domain.Chunk{
			ChunkIndex: i + 1,
			Temporal:   domain.ChunkTemporal{Start: c.Segment.Start, End: c.Segment.End},
			Content: domain.ChunkContent{
				Text: domain.TextContent{
					FullText: c.Transcript.Text,
					Segments: []domain.ASRSegment{c.Transcript},
				},
				Audio: domain.MediaRef{URL: c.AudioURL, Duration: c.Segment.Duration},
				Video: domain.MediaRef{URL: c.VideoURL, Duration: c.Segment.Duration},
			},
			Keyframes: c.Keyframes,
		})
	}

	return domain.Manifest{
		DocumentID: documentID,
		KBID:       kbID,
		KBType:     kbType,
		DocumentMetadata: domain.DocumentMetadata{
			Summary: domain.DocumentSummary{KeyPoints: KeyPoints(allKeyframes)},
		},
		Chunks: out,
	}
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
