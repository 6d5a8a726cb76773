// Package appkey validates the Conversion API's appid/key header pair
// against a JSON secrets file (spec.md §6 "Authentication"). Grounded on
// _examples/original_source/src/rag_converter/security.py's
// AppKeyValidator: a cached map reloaded only when the file's mtime
// changes, so a hot validation path never re-reads the file on every
// request.
package appkey

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type Validator struct {
	path      string
	mu        sync.Mutex
	cache     map[string]string
	lastMtime int64
}

func NewValidator(path string) *Validator {
	return &Validator{path: path, cache: map[string]string{}}
}

func (v *Validator) load() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	info, err := os.Stat(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			v.cache = map[string]string{}
			v.lastMtime = 0
			return nil
		}
		return fmt.Errorf("stat app secrets file: %w", err)
	}

	mtime := info.ModTime().UnixNano()
	if mtime == v.lastMtime {
		return nil
	}

	raw, err := os.ReadFile(v.path)
	if err != nil {
		return fmt.Errorf("read app secrets file: %w", err)
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("app secrets file must be a JSON object of {appid: key}: %w", err)
	}
	v.cache = data
	v.lastMtime = mtime
	return nil
}

// IsValid reloads the secrets file if its mtime changed, then checks the
// appid/key pair.
func (v *Validator) IsValid(appid, key string) bool {
	if appid == "" || key == "" {
		return false
	}
	if err := v.load(); err != nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache[appid] == key
}

// EnsureFile creates an empty secrets file at path if one doesn't exist,
// mirroring get_validator's convenience-init behavior.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte("{}\n"), 0o600)
}
