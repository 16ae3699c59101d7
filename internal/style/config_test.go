package style_test

import (
	"os"
	"path/filepath"
	"testing"

	"pyfmt/internal/style"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, style.ConfigName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigLayersOverPreset(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[style]
based_on = "google"
column_limit = 100
`)
	o, err := style.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if o.ColumnLimit != 100 {
		t.Errorf("ColumnLimit = %d, want 100", o.ColumnLimit)
	}
	if o.IndentWidth != 2 {
		t.Errorf("IndentWidth = %d, want 2 (from google base)", o.IndentWidth)
	}
}

func TestLoadConfigDefaultsToPEP8(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[style]
indent_width = 3
`)
	o, err := style.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if o.IndentWidth != 3 {
		t.Errorf("IndentWidth = %d, want 3", o.IndentWidth)
	}
	if o.ColumnLimit != 79 {
		t.Errorf("ColumnLimit = %d, want 79 (pep8 base)", o.ColumnLimit)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[style]
colum_limit = 100
`)
	if _, err := style.LoadConfig(path); err == nil {
		t.Error("expected an error for a misspelled option")
	}
}

func TestLoadConfigRejectsUnknownPreset(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[style]
based_on = "mystery"
`)
	if _, err := style.LoadConfig(path); err == nil {
		t.Error("expected an error for an unknown preset")
	}
}

func TestLoadConfigValidatesResult(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[style]
indent_width = 200
`)
	if _, err := style.LoadConfig(path); err == nil {
		t.Error("expected a validation error (indent exceeds column limit)")
	}
}

func TestFindConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[style]\n")
	nested := filepath.Join(root, "pkg", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := FindConfigHelper(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected to find the config")
	}
	want := filepath.Join(root, style.ConfigName)
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

// FindConfigHelper resolves symlinked temp dirs before comparing paths.
func FindConfigHelper(dir string) (string, bool, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", false, err
	}
	return style.FindConfig(resolved)
}

func TestForFileWithoutConfigUsesPEP8(t *testing.T) {
	dir := t.TempDir()
	o, err := style.ForFile(filepath.Join(dir, "a.py"))
	if err != nil {
		t.Fatal(err)
	}
	if o != style.PEP8() {
		t.Errorf("options = %+v, want PEP8 defaults", o)
	}
}

func TestForFilePicksUpNearestConfig(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	writeConfig(t, dir, "[style]\ncolumn_limit = 120\n")
	o, err := style.ForFile(filepath.Join(dir, "a.py"))
	if err != nil {
		t.Fatal(err)
	}
	if o.ColumnLimit != 120 {
		t.Errorf("ColumnLimit = %d, want 120", o.ColumnLimit)
	}
}
