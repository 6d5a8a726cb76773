package index

import (
	"testing"

	"github.com/shark8848/knowledge-transformer/internal/domain"
)

func TestApplyOverrides_SetsOnlyWhitelistedSettings(t *testing.T) {
	shards := 5
	body := map[string]any{"settings": map[string]any{"number_of_shards": 1}}
	out := ApplyOverrides(body, &domain.MappingOverrides{NumberOfShards: &shards})

	settings := out["settings"].(map[string]any)
	if settings["number_of_shards"] != 5 {
		t.Fatalf("expected shards overridden to 5, got %+v", settings)
	}
	if _, ok := settings["number_of_replicas"]; ok {
		t.Fatalf("expected replicas untouched when not overridden, got %+v", settings)
	}
}

func TestApplyOverrides_NilOverridesReturnsCopyUnchanged(t *testing.T) {
	body := map[string]any{"settings": map[string]any{"number_of_shards": float64(3)}}
	out := ApplyOverrides(body, nil)
	if out["settings"].(map[string]any)["number_of_shards"] != float64(3) {
		t.Fatalf("expected body unchanged, got %+v", out)
	}

	out["settings"].(map[string]any)["number_of_shards"] = 99
	if body["settings"].(map[string]any)["number_of_shards"] == 99 {
		t.Fatalf("expected ApplyOverrides to return a deep copy, not alias the input")
	}
}

func TestApplyOverrides_CreatesSettingsBlockWhenAbsent(t *testing.T) {
	replicas := 2
	out := ApplyOverrides(map[string]any{}, &domain.MappingOverrides{NumberOfReplicas: &replicas})
	settings, ok := out["settings"].(map[string]any)
	if !ok || settings["number_of_replicas"] != 2 {
		t.Fatalf("expected settings block created with replicas set, got %+v", out)
	}
}
