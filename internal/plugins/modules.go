package plugins

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModuleFile is the `{modules: [...]}` YAML document spec.md §6 names as
// persisted state, ported from original_source/scripts/manage_plugins.py's
// plugin-modules file.
type ModuleFile struct {
	Modules []string `yaml:"modules"`
}

// DefaultModules is the built-in module list used when no YAML file is
// configured (spec.md §5: "a list of module names loaded from a YAML file
// (or a built-in default list)").
var DefaultModules = []string{
	"plugins.builtin.office_to_pdf",
	"plugins.builtin.html_to_pdf",
	"plugins.builtin.svg_to_png",
	"plugins.builtin.webp_to_png",
	"plugins.builtin.gif_to_mp4",
	"plugins.builtin.audio_to_mp3",
	"plugins.builtin.video_to_mp4",
	"plugins.builtin.spreadsheet_to_pdf",
	"plugins.builtin.text_to_markdown",
}

// ReadModuleFile loads the module list from path; a missing file yields an
// empty list (mirrors read_plugin_module_file's "file not found -> []").
func ReadModuleFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read plugin module file: %w", err)
	}
	var doc ModuleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plugin module file: %w", err)
	}
	return doc.Modules, nil
}

// WriteModuleFile persists the module list, deduplicated and order
// preserved (first occurrence wins) — spec.md §8's round-trip invariant:
// write(read(f)) == read(f).
func WriteModuleFile(path string, modules []string) error {
	seen := make(map[string]bool, len(modules))
	deduped := make([]string, 0, len(modules))
	for _, m := range modules {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		deduped = append(deduped, m)
	}
	data, err := yaml.Marshal(ModuleFile{Modules: deduped})
	if err != nil {
		return fmt.Errorf("marshal plugin module file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write plugin module file: %w", err)
	}
	return nil
}

// LoadModules returns the module list at path, falling back to
// DefaultModules when the file doesn't exist or is empty.
func LoadModules(path string) ([]string, error) {
	if path == "" {
		return DefaultModules, nil
	}
	modules, err := ReadModuleFile(path)
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return DefaultModules, nil
	}
	return modules, nil
}
