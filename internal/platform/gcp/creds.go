// Package gcp wraps the Google Cloud clients the video slicing and probe
// OCR-fallback pipelines call out to: Vision (OCR), Speech (ASR), and Video
// Intelligence (shot-change detection). Adapted from the teacher's
// internal/clients/gcp and internal/platform/gcp packages.
package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

// ClientOptionsFromEnv resolves credentials from either an inline JSON blob
// or a file path, matching the teacher's dual env-var convention.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, " ", " ")), " ")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
