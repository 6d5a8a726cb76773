// Package plugins implements the format registry and built-in converters
// of spec.md §4.B: a (source_format,target_format) -> Converter capability
// map, populated at startup and treated as append-only thereafter
// (spec.md §5 "Shared resources").
package plugins

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// ConvertFunc is the function-value half of a Converter capability
// (spec.md §9 Design Notes: "model as a Converter capability: a function
// value plus descriptor metadata ... no inheritance required").
type ConvertFunc func(ctx ConvertContext, input domain.ConversionInput) (domain.ConversionResult, error)

// Converter is one registered capability: a descriptor plus its
// implementation.
type Converter struct {
	Descriptor domain.PluginDescriptor
	Fn         ConvertFunc
}

func registryKey(source, target string) string {
	return strings.ToLower(strings.TrimSpace(source)) + "->" + strings.ToLower(strings.TrimSpace(target))
}

// Registry is the process-wide, append-only set of plugin factories keyed
// by (source_format,target_format).
type Registry struct {
	mu         sync.RWMutex
	byKey      map[string]Converter
	defaultsBySource map[string]string // configured target defaults, loaded from config
}

func NewRegistry() *Registry {
	return &Registry{
		byKey:            make(map[string]Converter),
		defaultsBySource: make(map[string]string),
	}
}

// Register adds a converter under (source,target), lowercased. Duplicate
// registration of the same key fails (spec.md §4.B: "Registration is
// idempotent only via distinct keys; duplicate registration fails").
func (r *Registry) Register(desc domain.PluginDescriptor, fn ConvertFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := registryKey(desc.SourceFormat, desc.TargetFormat)
	if _, exists := r.byKey[key]; exists {
		return fmt.Errorf("plugin registry: duplicate registration for %s->%s", desc.SourceFormat, desc.TargetFormat)
	}
	r.byKey[key] = Converter{Descriptor: desc, Fn: fn}
	return nil
}

// SetConfiguredDefault records a configured fallback target format for a
// source format, consulted by ResolveTarget when the registry has no
// matching pair (spec.md §4.B "Format defaulting").
func (r *Registry) SetConfiguredDefault(source, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultsBySource[strings.ToLower(strings.TrimSpace(source))] = strings.ToLower(strings.TrimSpace(target))
}

// Lookup returns the converter registered for (source,target), if any.
func (r *Registry) Lookup(source, target string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byKey[registryKey(source, target)]
	return c, ok
}

// ResolveTarget implements spec.md §4.B's format-defaulting rule: when
// target_format is absent, first consult the registry for any pairing with
// source==source_format and pick the first (by insertion order is not
// guaranteed in a map, so pick deterministically by sorted key); otherwise
// fall back to a configured mapping; otherwise fail.
func (r *Registry) ResolveTarget(source string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	source = strings.ToLower(strings.TrimSpace(source))

	var candidates []string
	for _, c := range r.byKey {
		if strings.ToLower(c.Descriptor.SourceFormat) == source {
			candidates = append(candidates, c.Descriptor.TargetFormat)
		}
	}
	if len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c < best {
				best = c
			}
		}
		return best, nil
	}

	if target, ok := r.defaultsBySource[source]; ok {
		return target, nil
	}
	return "", fmt.Errorf("unsupported format: no target mapping available for source %q", source)
}

// Formats enumerates every (source,target,plugin) triple, for the
// GET /formats endpoint (spec.md §6).
func (r *Registry) Formats() []domain.PluginDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.PluginDescriptor, 0, len(r.byKey))
	for _, c := range r.byKey {
		out = append(out, c.Descriptor)
	}
	return out
}
