package handlers

import (
	"fmt"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/apierr"
)

var pageLimitFormats = map[string]bool{
	"doc": true, "docx": true, "ppt": true, "pptx": true, "html": true,
}

var durationFormats = map[string]bool{
	"mp3": true, "wav": true, "m4a": true, "aac": true,
	"mp4": true, "mov": true, "avi": true, "mkv": true, "webm": true, "gif": true,
}

// validateConvertRequest enforces the Conversion API's batch/size/format
// rules.
func validateConvertRequest(files []domain.FileSpec, sync bool, maxBatchFiles int, maxTotalMB, defaultFileMaxMB float64) error {
	if len(files) == 0 {
		return apierr.BatchLimitExceeded(fmt.Errorf("at least one file is required"))
	}
	if sync && len(files) != 1 {
		return apierr.BatchLimitExceeded(fmt.Errorf("sync mode allows exactly one file"))
	}
	if maxBatchFiles > 0 && len(files) > maxBatchFiles {
		return apierr.BatchLimitExceeded(fmt.Errorf("batch of %d files exceeds limit of %d", len(files), maxBatchFiles))
	}

	total := 0.0
	for i, f := range files {
		total += f.SizeMB
		limit := defaultFileMaxMB
		if limit > 0 && f.SizeMB > limit {
			return apierr.FileTooLarge(fmt.Errorf("file %d (%.1fMB) exceeds per-file limit of %.1fMB", i, f.SizeMB, limit))
		}
		if f.PageLimit > 0 && !pageLimitFormats[f.SourceFormat] {
			return apierr.FormatUnsupported(fmt.Errorf("page_limit is only valid on doc/docx/ppt/pptx/html sources, got %q", f.SourceFormat))
		}
		if f.DurationSeconds > 0 && !durationFormats[f.SourceFormat] {
			return apierr.FormatUnsupported(fmt.Errorf("duration_seconds is only valid on audio/video sources, got %q", f.SourceFormat))
		}
		if f.PageLimit > 0 && f.DurationSeconds > 0 {
			return apierr.FormatUnsupported(fmt.Errorf("file %d: page_limit and duration_seconds cannot both be set", i))
		}
		if f.LocatorCount() != 1 {
			return apierr.FormatUnsupported(fmt.Errorf("file %d: exactly one of inline_bytes/local_path/object_key/remote_url/attach_id must be set", i))
		}
	}
	if maxTotalMB > 0 && total > maxTotalMB {
		return apierr.FileTooLarge(fmt.Errorf("batch total %.1fMB exceeds limit of %.1fMB", total, maxTotalMB))
	}
	return nil
}
