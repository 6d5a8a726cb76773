package plugins

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteReadModuleFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.yaml")
	input := []string{"plugins.builtin.office_to_pdf", "plugins.builtin.html_to_pdf", "plugins.builtin.office_to_pdf"}

	if err := WriteModuleFile(path, input); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadModuleFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"plugins.builtin.office_to_pdf", "plugins.builtin.html_to_pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected deduped order-preserved list %v, got %v", want, got)
	}
}

func TestReadModuleFile_MissingFileYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	got, err := ReadModuleFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list for missing file, got %v", got)
	}
}

func TestLoadModules_FallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	got, err := LoadModules(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, DefaultModules) {
		t.Fatalf("expected default modules, got %v", got)
	}
}

func TestLoadModules_EmptyPathUsesDefault(t *testing.T) {
	got, err := LoadModules("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, DefaultModules) {
		t.Fatalf("expected default modules for empty path, got %v", got)
	}
}
