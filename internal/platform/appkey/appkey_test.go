package appkey

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsValid_AcceptsMatchingPair(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.json")
	if err := os.WriteFile(path, []byte(`{"app1":"key1"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	v := NewValidator(path)
	if !v.IsValid("app1", "key1") {
		t.Fatal("expected valid pair to be accepted")
	}
	if v.IsValid("app1", "wrong") {
		t.Fatal("expected wrong key to be rejected")
	}
	if v.IsValid("", "") {
		t.Fatal("expected empty appid/key to be rejected")
	}
}

func TestIsValid_ReloadsOnMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.json")
	if err := os.WriteFile(path, []byte(`{"app1":"key1"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	v := NewValidator(path)
	if !v.IsValid("app1", "key1") {
		t.Fatal("expected initial pair valid")
	}

	time.Sleep(10 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"app2":"key2"}`), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if v.IsValid("app1", "key1") {
		t.Fatal("expected stale appid to be rejected after reload")
	}
	if !v.IsValid("app2", "key2") {
		t.Fatal("expected new appid to be accepted after reload")
	}
}

func TestIsValid_MissingFileReturnsFalse(t *testing.T) {
	v := NewValidator(filepath.Join(t.TempDir(), "missing.json"))
	if v.IsValid("any", "thing") {
		t.Fatal("expected missing file to reject everything")
	}
}
