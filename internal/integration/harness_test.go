// Package integration exercises the whole check pipeline end to end:
// config discovery, rule resolution, linting, and fix application over
// real files on disk.
package integration

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/fortlab/flint/internal/config"
	"github.com/fortlab/flint/internal/fix"
	"github.com/fortlab/flint/internal/linter"
	"github.com/fortlab/flint/internal/rules"
	_ "github.com/fortlab/flint/internal/rules/all"
	"github.com/fortlab/flint/internal/selector"
)

type lintCase struct {
	name string

	// files maps relative paths to contents; config files go here too.
	files map[string]string

	// target is the file to check, relative to the case directory.
	target string

	// want lists the expected rule codes, one entry per diagnostic.
	want []string
}

type fixCase struct {
	name        string
	input       string
	allowUnsafe bool

	// wantApplied is the expected number of fixes applied.
	wantApplied int

	// wantOutput is the expected fixed text; empty means unchanged.
	wantOutput string
}

// newLinterFor builds a linter from the config that discovery would pick
// for path, exactly as the check command does.
func newLinterFor(t *testing.T, path string) *linter.Linter {
	t.Helper()

	reg := rules.DefaultRegistry()
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config for %s: %v", path, err)
	}
	if err := cfg.Validate(reg); err != nil {
		t.Fatalf("validate config for %s: %v", path, err)
	}
	table, err := selector.Resolve(reg, cfg.Check.OpsFor(path), cfg.Check.Baseline())
	if err != nil {
		t.Fatalf("resolve rule table for %s: %v", path, err)
	}
	return linter.New(reg, table, cfg.Check.Settings(), cfg.Check.AllowComments)
}

func runLintCase(t *testing.T, tc lintCase) {
	t.Helper()

	dir := t.TempDir()
	for rel, content := range tc.files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}

	target := filepath.Join(dir, filepath.FromSlash(tc.target))
	res := newLinterFor(t, target).CheckFile(target)

	got := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		got = append(got, d.Code)
	}
	slices.Sort(got)

	want := slices.Clone(tc.want)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("diagnostic codes = %v, want %v", got, want)
		for _, d := range res.Diagnostics {
			t.Logf("  %s at %d..%d: %s", d.Code, d.Range.Start, d.Range.End, d.Message)
		}
	}
}

func runFixCase(t *testing.T, tc fixCase) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "input.f90")
	if err := os.WriteFile(path, []byte(tc.input), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	res := fix.Apply(newLinterFor(t, path), path, []byte(tc.input), tc.allowUnsafe)

	if res.Fixed != tc.wantApplied {
		t.Errorf("applied %d fixes, want %d (counts: %v)", res.Fixed, tc.wantApplied, res.Counts)
	}
	wantOutput := tc.wantOutput
	if wantOutput == "" {
		wantOutput = tc.input
	}
	if got := string(res.Source); got != wantOutput {
		t.Errorf("fixed output = %q, want %q", got, wantOutput)
	}
	if !res.Converged {
		t.Errorf("fix loop did not converge after %d passes", res.Passes)
	}
}
