// Package index implements the Index Control Plane (spec.md §4.H):
// render, create, alias_switch, bulk_ingest, ingest_docindex, rebuild_full,
// rebuild_partial. Grounded on
// _examples/original_source/src/es_index_service/tasks.py.
package index

import (
	"encoding/json"
	"os"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

// LoadMapping reads the index mapping template from disk, mirroring
// tasks.py's _load_mapping (FileNotFoundError -> explicit error here too).
func LoadMapping(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// ApplyOverrides deep-copies body via a json round-trip, as tasks.py's
// _apply_overrides does, and applies the three whitelisted settings to the
// copy. body itself is never modified; a nil override returns the copy as is.
func ApplyOverrides(body map[string]any, overrides *domain.MappingOverrides) map[string]any {
	result := deepCopyMap(body)
	if overrides == nil {
		return result
	}

	settings, _ := result["settings"].(map[string]any)
	if settings == nil {
		settings = map[string]any{}
		result["settings"] = settings
	}
	if overrides.NumberOfShards != nil {
		settings["number_of_shards"] = *overrides.NumberOfShards
	}
	if overrides.NumberOfReplicas != nil {
		settings["number_of_replicas"] = *overrides.NumberOfReplicas
	}
	if overrides.RefreshInterval != nil {
		settings["refresh_interval"] = *overrides.RefreshInterval
	}
	return result
}

func deepCopyMap(m map[string]any) map[string]any {
	raw, err := json.Marshal(m)
	if err != nil {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
