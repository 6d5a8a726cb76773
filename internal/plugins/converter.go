package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// ConvertContext carries the per-call context and a scoped logger into a
// ConvertFunc, plus the working directory the plugin should write its
// output into.
type ConvertContext struct {
	Ctx    context.Context
	Log    *logger.Logger
	WorkDir string
}

// Service is the converter's single public contract named in spec.md §4.B:
// convert(ConversionInput) -> ConversionResult.
type Service struct {
	registry *Registry
	log      *logger.Logger
}

func NewService(registry *Registry, log *logger.Logger) *Service {
	return &Service{registry: registry, log: log.With("component", "converter")}
}

func normalizeFormat(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}

// IsPassthrough reports whether source==target after normalization, with
// empty target behaving as source for passthrough lookup only
// (spec.md §4.B).
func IsPassthrough(source, target string) bool {
	source = normalizeFormat(source)
	target = normalizeFormat(target)
	if target == "" {
		target = source
	}
	return source == target
}

// Convert dispatches to the registered plugin for (source,target). Callers
// are expected to have already handled the passthrough case themselves
// (spec.md §4.C step 2/3: passthrough never invokes a plugin).
func (s *Service) Convert(cctx ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error) {
	source := normalizeFormat(input.SourceFormat)
	target := normalizeFormat(input.TargetFormat)

	conv, ok := s.registry.Lookup(source, target)
	if !ok {
		locator := input.InputURL
		if locator == "" {
			locator = input.ObjectKey
		}
		if locator == "" {
			locator = input.InputPath
		}
		return domain.ConversionResult{}, fmt.Errorf(
			"unsupported format: no plugin registered for %s->%s (locator=%s)", source, target, locator,
		)
	}

	result, err := conv.Fn(cctx, input)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("plugin %s failed: %w", conv.Descriptor.Slug, err)
	}
	return result, nil
}
