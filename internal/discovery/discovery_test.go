package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, names []string) {
	t.Helper()
	for _, f := range names {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("program p\nend program p\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func paths(results []DiscoveredFile) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Path
	}
	return out
}

func TestDefaultExtensions(t *testing.T) {
	exts := DefaultExtensions()
	if len(exts) == 0 {
		t.Fatal("DefaultExtensions() returned empty slice")
	}

	expected := map[string]bool{"f90": false, "F90": false, "f": false, "f08": false}
	for _, e := range exts {
		if _, ok := expected[e]; ok {
			expected[e] = true
		}
	}
	for e, found := range expected {
		if !found {
			t.Errorf("DefaultExtensions() missing expected extension %q", e)
		}
	}
}

func TestDiscoverFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"solver.f90"})
	target := filepath.Join(tmpDir, "solver.f90")

	results, err := Discover([]string{target}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Path != target {
		t.Errorf("expected path %q, got %q", target, results[0].Path)
	}

	absPath, err := filepath.Abs(target)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].ConfigRoot != filepath.Dir(absPath) {
		t.Errorf("expected ConfigRoot %q, got %q", filepath.Dir(absPath), results[0].ConfigRoot)
	}
}

func TestDiscoverExplicitFileSkipsExtensionFilter(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"legacy.for"})
	target := filepath.Join(tmpDir, "legacy.for")

	results, err := Discover([]string{target}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("explicit file input should bypass the extension filter, got %d results", len(results))
	}
}

func TestDiscoverDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{
		"main.f90",
		"solver.F90",
		"legacy.f77",
		"lib/grid.f95",
		"lib/nested/io.f08",
		"README.md",
		"notes.txt",
	})

	results, err := Discover([]string{tmpDir}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d: %v", len(results), paths(results))
	}

	// Sorted, absolute paths
	for i := 1; i < len(results); i++ {
		if results[i-1].Path >= results[i].Path {
			t.Errorf("results not sorted: %q >= %q", results[i-1].Path, results[i].Path)
		}
	}
	for _, r := range results {
		if !filepath.IsAbs(r.Path) {
			t.Errorf("directory result %q is not absolute", r.Path)
		}
	}
}

func TestDiscoverCustomExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"a.f90", "b.f", "c.F90"})

	results, err := Discover([]string{tmpDir}, Options{Extensions: []string{"f90"}})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result with extensions=[f90], got %d: %v", len(results), paths(results))
	}
	if filepath.Base(results[0].Path) != "a.f90" {
		t.Errorf("expected a.f90, got %q", results[0].Path)
	}
}

func TestDiscoverGlob(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"src/a.f90", "src/deep/b.f90", "other/c.f90"})

	results, err := Discover([]string{filepath.Join(tmpDir, "src", "**", "*.f90")}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %v", len(results), paths(results))
	}
}

func TestDiscoverExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"main.f90", "build/gen.f90", "sub/build/gen2.f90", "old.bak.f90"})

	results, err := Discover([]string{tmpDir}, Options{
		ExcludePatterns: []string{"build/*", "*.bak.f90"},
	})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result after excludes, got %d: %v", len(results), paths(results))
	}
	if filepath.Base(results[0].Path) != "main.f90" {
		t.Errorf("expected main.f90 to survive excludes, got %q", results[0].Path)
	}
}

func TestDiscoverDeduplicates(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, []string{"main.f90"})
	target := filepath.Join(tmpDir, "main.f90")

	results, err := Discover([]string{target, tmpDir}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 deduplicated result, got %d: %v", len(results), paths(results))
	}
}
