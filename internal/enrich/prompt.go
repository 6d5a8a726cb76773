package enrich

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// promptInput is a superset of fields a chunk prompt template might need,
// grounded on the teacher's internal/learning/prompts.Input shape
// (missingkey=zero: absent fields render empty rather than failing).
type promptInput struct {
	Title        string
	Start        float64
	End          float64
	SummaryWords int
	Text         string
	Keyframes    []string
}

func renderPrompt(tmplSrc string, chunk domain.Chunk, title string, cfg Config) (string, error) {
	tmpl, err := template.New("chunk").Option("missingkey=zero").Parse(tmplSrc)
	if err != nil {
		return "", err
	}

	descriptions := make([]string, 0, len(chunk.Keyframes))
	for _, kf := range chunk.Keyframes {
		if kf.Description != "" {
			descriptions = append(descriptions, kf.Description)
		}
	}

	in := promptInput{
		Title:        title,
		Start:        chunk.Temporal.Start,
		End:          chunk.Temporal.End,
		SummaryWords: cfg.SummaryWords,
		Text:         chunk.Content.Text.FullText,
		Keyframes:    descriptions,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, in); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
