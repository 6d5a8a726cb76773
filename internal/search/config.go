// Package search implements the Index Control Plane and Search Dispatcher
// (spec.md §4.H/§4.I): mapping render/create/alias-switch/bulk-ingest/
// rebuild against Elasticsearch, and text/vector/hybrid query composition
// over the read alias. Modeled on the teacher's internal/objectstore
// client-wrapper shape, using github.com/elastic/go-elasticsearch/v8's
// low-level esapi.Transport.Perform rather than the typed client so the
// exact status+body error surface the original Python ESClient exposes
// (_examples/original_source/src/es_index_service/clients.py,
// src/es_search_service/clients.py) is preserved.
package search

import (
	"github.com/shark8848/knowledge-transformer/internal/platform/envutil"
)

// Config carries the ES_INDEX_SERVICE_*/ES_SEARCH_SERVICE_* settings
// (spec.md §6/§9), unified into one struct since both services share one
// Elasticsearch cluster in this port.
type Config struct {
	Endpoint           string
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeoutSec  int

	BaseIndex    string
	DefaultIndex string
	ReadAlias    string
	WriteAlias   string

	DefaultShards   int
	DefaultReplicas int
	RefreshInterval string
	MappingPath     string

	VectorField          string
	DefaultNumCandidates int
	TextFields           []string
}

func DefaultConfig() Config {
	return Config{
		Endpoint:             "http://localhost:9200",
		InsecureSkipVerify:   true,
		RequestTimeoutSec:    30,
		BaseIndex:            "kb_chunks",
		DefaultIndex:         "kb_chunks_v1",
		ReadAlias:            "kb_chunks",
		WriteAlias:           "kb_chunks_write",
		DefaultShards:        3,
		DefaultReplicas:      1,
		RefreshInterval:      "10s",
		MappingPath:          "config/kb_chunks_v1_mapping.json",
		VectorField:          "embedding",
		DefaultNumCandidates: 200,
		TextFields:           []string{"title^2", "content^3", "summary", "keywords^1.5", "content_values"},
	}
}

// ConfigFromEnv reads ES_INDEX_SERVICE_*/ES_SEARCH_SERVICE_* settings,
// aliasing the legacy ES_SERVICE_* prefix onto ES_INDEX_SERVICE_* once
// before reading (spec.md §9, matching the original's
// _apply_legacy_env_prefix which runs once per get_settings()).
func ConfigFromEnv() Config {
	envutil.AliasPrefix("ES_SERVICE_", "ES_INDEX_SERVICE_")
	cfg := DefaultConfig()

	cfg.Endpoint = firstNonEmpty(
		envutil.String("ES_SEARCH_SERVICE__ENDPOINT", ""),
		envutil.String("ES_INDEX_SERVICE__ENDPOINT", cfg.Endpoint),
	)
	cfg.Username = envutil.String("ES_INDEX_SERVICE__USERNAME", cfg.Username)
	cfg.Password = envutil.String("ES_INDEX_SERVICE__PASSWORD", cfg.Password)
	cfg.InsecureSkipVerify = !envutil.Bool("ES_INDEX_SERVICE__VERIFY_SSL", !cfg.InsecureSkipVerify)
	cfg.RequestTimeoutSec = envutil.Int("ES_INDEX_SERVICE__REQUEST_TIMEOUT_SEC", cfg.RequestTimeoutSec)

	cfg.BaseIndex = envutil.String("ES_INDEX_SERVICE__BASE_INDEX", cfg.BaseIndex)
	cfg.DefaultIndex = envutil.String("ES_INDEX_SERVICE__DEFAULT_INDEX", cfg.DefaultIndex)
	cfg.ReadAlias = envutil.String("ES_INDEX_SERVICE__READ_ALIAS", cfg.ReadAlias)
	cfg.WriteAlias = envutil.String("ES_INDEX_SERVICE__WRITE_ALIAS", cfg.WriteAlias)

	cfg.DefaultShards = envutil.Int("ES_INDEX_SERVICE__DEFAULT_SHARDS", cfg.DefaultShards)
	cfg.DefaultReplicas = envutil.Int("ES_INDEX_SERVICE__DEFAULT_REPLICAS", cfg.DefaultReplicas)
	cfg.RefreshInterval = envutil.String("ES_INDEX_SERVICE__REFRESH_INTERVAL", cfg.RefreshInterval)
	cfg.MappingPath = envutil.String("ES_INDEX_SERVICE__MAPPING_PATH", cfg.MappingPath)

	cfg.VectorField = envutil.String("ES_SEARCH_SERVICE__VECTOR_FIELD", cfg.VectorField)
	cfg.DefaultNumCandidates = envutil.Int("ES_SEARCH_SERVICE__DEFAULT_NUM_CANDIDATES", cfg.DefaultNumCandidates)

	return cfg
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
