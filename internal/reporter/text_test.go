package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/sourcemap"
	"github.com/fortlab/flint/internal/syntax"
)

func plainReporter(buf *bytes.Buffer, unsafeHints bool) *TextReporter {
	noColor := false
	return NewTextReporter(buf, TextOptions{
		Color:       &noColor,
		ShowSource:  true,
		UnsafeHints: unsafeHints,
	})
}

func TestTextSingleFinding(t *testing.T) {
	source := []byte("program p\n  x = 1   \nend program p\n")
	fix := rules.SafeFix(rules.Deletion(syntax.Range{Start: 17, End: 20}))
	findings := []Finding{{
		Path:    "solver.f90",
		Code:    "S101",
		Message: "trailing whitespace",
		Start:   sourcemap.Position{Line: 2, Column: 8},
		End:     sourcemap.Position{Line: 2, Column: 11},
		Fix:     &fix,
	}}
	sources := map[string][]byte{"solver.f90": source}

	var buf bytes.Buffer
	r := plainReporter(&buf, false)
	if err := r.Report(findings, sources, Summary{FilesScanned: 1, Fixable: 1}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "solver.f90:2:8: S101 trailing whitespace [*]") {
		t.Errorf("Missing header, got:\n%s", output)
	}
	if !strings.Contains(output, ">>>") {
		t.Errorf("Missing line marker, got:\n%s", output)
	}
	if !strings.Contains(output, "   2 |") {
		t.Errorf("Missing line number, got:\n%s", output)
	}
	if !strings.Contains(output, "Found 1 error in 1 file.") {
		t.Errorf("Missing summary, got:\n%s", output)
	}
	if !strings.Contains(output, "[*] 1 fixable with the `--fix` option.") {
		t.Errorf("Missing fix hint, got:\n%s", output)
	}

	snaps.MatchSnapshot(t, output)
}

func TestTextMarksOnlyAffectedLines(t *testing.T) {
	source := []byte("program p\n  use iso_fortran_env\n  implicit none\n  x = 1\nend program p\n")
	findings := []Finding{{
		Path:    "solver.f90",
		Code:    "T001",
		Message: "program missing 'implicit none'",
		Start:   sourcemap.Position{Line: 1, Column: 1},
		End:     sourcemap.Position{Line: 1, Column: 10},
	}}
	sources := map[string][]byte{"solver.f90": source}

	var buf bytes.Buffer
	r := plainReporter(&buf, false)
	if err := r.Report(findings, sources, Summary{FilesScanned: 1}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, ">>>") && !strings.Contains(line, "program p") {
			t.Errorf("marker on unaffected line: %q", line)
		}
	}
}

func TestTextFileLevelFinding(t *testing.T) {
	findings := []Finding{{
		Path:    "prog.f66",
		Message: "file extension should be '.f90' or '.F90'",
		Code:    "S091",
	}}

	var buf bytes.Buffer
	r := plainReporter(&buf, false)
	if err := r.Report(findings, map[string][]byte{}, Summary{FilesScanned: 1}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "prog.f66: S091 file extension should be '.f90' or '.F90'") {
		t.Errorf("Missing file-level header, got:\n%s", output)
	}
	if strings.Contains(output, ">>>") {
		t.Errorf("File-level finding should have no snippet, got:\n%s", output)
	}
}

func TestTextCleanRun(t *testing.T) {
	var buf bytes.Buffer
	r := plainReporter(&buf, false)
	if err := r.Report(nil, nil, Summary{FilesScanned: 4}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if got := buf.String(); got != "All checks passed! (4 files scanned)\n" {
		t.Errorf("unexpected clean output: %q", got)
	}
}

func TestTextUnsafeHint(t *testing.T) {
	fix := rules.UnsafeFix(rules.Deletion(syntax.Range{Start: 0, End: 1}))
	findings := []Finding{{
		Path:    "a.f90",
		Code:    "OB011",
		Message: "'pause' statements are a deleted feature",
		Start:   sourcemap.Position{Line: 1, Column: 1},
		End:     sourcemap.Position{Line: 1, Column: 6},
		Fix:     &fix,
	}}

	var buf bytes.Buffer
	r := plainReporter(&buf, true)
	summary := Summarize(findings, 1, 5, 0, false)
	if err := r.Report(findings, nil, summary); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "1 hidden fix can be enabled with the `--unsafe-fixes` option.") {
		t.Errorf("Missing unsafe hint, got:\n%s", output)
	}
}

func TestTextFixedSummary(t *testing.T) {
	var buf bytes.Buffer
	r := plainReporter(&buf, false)
	if err := r.Report(nil, nil, Summary{FilesScanned: 2, Fixed: 3}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Fixed 3 errors.") {
		t.Errorf("Missing fixed summary, got:\n%s", buf.String())
	}
}
