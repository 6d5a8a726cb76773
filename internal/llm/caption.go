package llm

import (
	"context"
	"strings"
)

// Captioner describes a keyframe in plain text, grounded on the teacher's
// internal/clients/openai/caption.go DescribeImage call — narrowed from a
// structured {summary, key_takeaways, entities, relationships,
// text_in_image} result to the single description string the video
// pipeline's manifest needs per frame.
type Captioner struct {
	client Client
}

func NewCaptioner(client Client) *Captioner {
	return &Captioner{client: client}
}

const captionSystemPrompt = "You are a meticulous visual analyst describing a single video keyframe. " +
	"Describe what's on screen in one or two factual sentences; do not invent details that aren't visible."

func (c *Captioner) Caption(ctx context.Context, img []byte, mimeType string) (string, error) {
	text, err := c.client.GenerateTextWithImage(ctx, captionSystemPrompt, "Describe this keyframe.", img, mimeType)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
