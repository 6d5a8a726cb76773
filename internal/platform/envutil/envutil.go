// Package envutil reads process configuration out of the environment,
// generalizing the teacher's single Int helper to the full set of scalar
// types and the double-underscore nested prefixes spec.md §6 uses
// (RAG_STORAGE__ENDPOINT, PIPELINE_ASR__LANGUAGE, ...).
package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func String(name, def string) string {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Float(name string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func Bool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func Duration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Nested builds the env var name for a prefix/field pair joined by sep,
// matching the "__"-separated nested settings spec.md §6 describes
// (e.g. Nested("RAG_STORAGE", "ENDPOINT", "__") == "RAG_STORAGE__ENDPOINT").
func Nested(prefix, field, sep string) string {
	if sep == "" {
		sep = "__"
	}
	return prefix + sep + field
}

// AliasPrefix copies every ES_SERVICE_<rest> value onto ES_INDEX_SERVICE_<rest>
// for any variable not already set, one time at process start. This covers
// spec.md §9's legacy ES_SERVICE_* environment variables that predate the
// split into es_index_service/es_search_service.
func AliasPrefix(from, to string) {
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, val := parts[0], parts[1]
		if !strings.HasPrefix(key, from) {
			continue
		}
		aliased := to + strings.TrimPrefix(key, from)
		if _, exists := os.LookupEnv(aliased); exists {
			continue
		}
		_ = os.Setenv(aliased, val)
	}
}
