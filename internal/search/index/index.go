package index

import (
	"context"
	"fmt"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/search"
)

// Render loads the mapping template and applies overrides in one step,
// grounded on create_index_task's body = _apply_overrides(_load_mapping(...)).
func Render(mappingPath string, overrides *domain.MappingOverrides) (map[string]any, error) {
	body, err := LoadMapping(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("render mapping: %w", err)
	}
	return ApplyOverrides(body, overrides), nil
}

// Create issues PUT /<index> with an already-rendered mapping body (see
// Render), grounded on create_index_task.
func Create(ctx context.Context, client *search.Client, indexName string, body map[string]any) error {
	resp, err := client.Put(ctx, indexName, body)
	if err != nil {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	if !resp.OK() {
		return search.StatusError("create index", resp)
	}
	return nil
}

// AliasSwitch removes the read/write aliases from oldIndex (if given) and
// adds them to newIndex in one atomic _aliases transaction, grounded on
// ESClient.alias_switch: removes are ordered before adds (spec.md §5).
func AliasSwitch(ctx context.Context, client *search.Client, readAlias, writeAlias, newIndex, oldIndex string) error {
	actions := make([]map[string]any, 0, 4)
	if oldIndex != "" {
		actions = append(actions,
			map[string]any{"remove": map[string]any{"index": oldIndex, "alias": readAlias}},
			map[string]any{"remove": map[string]any{"index": oldIndex, "alias": writeAlias}},
		)
	}
	actions = append(actions,
		map[string]any{"add": map[string]any{"index": newIndex, "alias": readAlias}},
		map[string]any{"add": map[string]any{"index": newIndex, "alias": writeAlias}},
	)

	resp, err := client.Post(ctx, "_aliases", map[string]any{"actions": actions}, nil)
	if err != nil {
		return fmt.Errorf("alias switch to %s: %w", newIndex, err)
	}
	if !resp.OK() {
		return search.StatusError("alias switch", resp)
	}
	return nil
}
