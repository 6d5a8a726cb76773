// Package builtin implements the built-in converter family named in
// spec.md §4.B: office->pdf/docx, html->pdf/md, svg->png, webp->png,
// gif->mp4, audio family->mp3, video family->mp4, xls/xlsx->pdf/md,
// text/markdown->md. Each wraps an external tool invocation, grounded
// directly on the teacher's internal/platform/localmedia/tools.go
// (exec.CommandContext, CombinedOutput, temp-dir handling, binary-presence
// checks).
package builtin

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
)

const defaultTimeout = 10 * time.Minute

func assertBinary(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", name, err)
	}
	return nil
}

func run(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx2, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w; out=%s", name, err, string(out))
	}
	return out, nil
}

func newestFileWithExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) != ext {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, e.Name())
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no %s files in %s", ext, dir)
	}
	return newest, nil
}

// truncatePDFPages rewrites a PDF to keep only the first n pages, without
// re-rendering (spec.md §4.B: "caps paged PDF outputs by rewriting the
// output to keep only the first N pages (no re-render)").
func truncatePDFPages(ctx context.Context, pdfPath string, n int) (string, error) {
	if n <= 0 {
		return pdfPath, nil
	}
	if err := assertBinary("qpdf"); err != nil {
		// qpdf is optional tooling; degrade to the untruncated output rather
		// than fail the whole conversion when it's absent.
		return pdfPath, nil
	}
	outPath := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + "_trunc.pdf"
	pageRange := fmt.Sprintf("1-%d", n)
	if _, err := run(ctx, 2*time.Minute, "qpdf", pdfPath, "--pages", pdfPath, pageRange, "--", outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

// trimArgsForDuration caps an AV output at the encoder level via -t
// (spec.md §4.B: "caps AV outputs by trimming at the encoder level").
func trimArgsForDuration(durationSeconds float64) []string {
	if durationSeconds <= 0 {
		return nil
	}
	return []string{"-t", strconv.FormatFloat(durationSeconds, 'f', 3, 64)}
}

func pageLimit(input domain.ConversionInput) int {
	if v, ok := input.Metadata["page_limit"]; ok {
		switch t := v.(type) {
		case int:
			return t
		case float64:
			return int(t)
		}
	}
	return 0
}

func durationSeconds(input domain.ConversionInput) float64 {
	if v, ok := input.Metadata["duration_seconds"]; ok {
		switch t := v.(type) {
		case float64:
			return t
		case int:
			return float64(t)
		}
	}
	return 0
}

func successResult(source, target, outputPath string) domain.ConversionResult {
	return domain.ConversionResult{
		Source: source,
		Target: target,
		Status: domain.StatusSuccess,
		Metadata: map[string]interface{}{
			"local_output_path": outputPath,
		},
	}
}

func register(reg *plugins.Registry, slug, source, target string, fn plugins.ConvertFunc) error {
	return reg.Register(domain.PluginDescriptor{Slug: slug, SourceFormat: source, TargetFormat: target}, fn)
}

func sortedStrings(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}
