// Package testutil provides test helpers for the Fortran linter.
package testutil

import (
	"strings"
	"testing"

	"github.com/fortlab/flint/internal/fortran"
	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/sourcemap"
	"github.com/fortlab/flint/internal/syntax"
)

// ParseSource parses Fortran source from a string and fails the test on a
// broken tree when strict is desirable. Most rule tests tolerate error nodes,
// so this only fails when parsing itself cannot produce a tree.
func ParseSource(tb testing.TB, content string) *syntax.Tree {
	tb.Helper()

	tree := fortran.Parse([]byte(content))
	if tree == nil || tree.Root() == nil {
		tb.Fatalf("failed to parse source")
	}
	return tree
}

// MakeCheckInput creates a CheckInput for testing a rule against in-memory
// source, with default settings.
func MakeCheckInput(tb testing.TB, path, content string) *rules.CheckInput {
	tb.Helper()
	return MakeCheckInputWithSettings(tb, path, content, rules.DefaultSettings())
}

// MakeCheckInputWithSettings creates a CheckInput with explicit rule settings.
func MakeCheckInputWithSettings(tb testing.TB, path, content string, settings rules.Settings) *rules.CheckInput {
	tb.Helper()

	src := []byte(content)
	return &rules.CheckInput{
		Path:     path,
		Source:   src,
		Masked:   fortran.Mask(src),
		Map:      sourcemap.New(src),
		Settings: settings,
	}
}

// CheckRule runs a single rule over the given input, dispatching on the rule
// kind the same way the file checker does. Tree rules are driven by a full
// pre-order walk gated on their entrypoint kinds. Diagnostics come back in
// source order.
func CheckRule(tb testing.TB, rule rules.Rule, input *rules.CheckInput) []rules.Diagnostic {
	tb.Helper()

	var diags []rules.Diagnostic
	switch r := rule.(type) {
	case rules.PathRule:
		diags = r.CheckPath(input)
	case rules.TextRule:
		diags = r.CheckText(input)
	case rules.TreeRule:
		kinds := make(map[string]bool, len(r.Entrypoints()))
		for _, k := range r.Entrypoints() {
			kinds[k] = true
		}
		tree := fortran.Parse(input.Source)
		syntax.Walk(tree.Root(), func(node *syntax.Node) {
			if kinds[node.Kind()] {
				diags = append(diags, r.CheckNode(input, node)...)
			}
		})
	default:
		tb.Fatalf("rule %s implements no check kind", rule.Metadata().Code)
	}
	rules.SortDiagnostics(diags)
	return diags
}

// RuleTestCase defines a test case for table-driven rule tests.
type RuleTestCase struct {
	// Name is the test case name.
	Name string

	// Source is the Fortran source to check.
	Source string

	// Path overrides the default test path ("test.f90").
	Path string

	// Settings overrides the default rule settings.
	Settings *rules.Settings

	// WantDiagnostics is the expected number of diagnostics.
	// Use -1 to skip the count check.
	WantDiagnostics int

	// WantMessages are substrings expected in diagnostic messages, in order.
	WantMessages []string

	// WantFixes is the expected replacement text of the first edit of each
	// diagnostic's fix, in order. Empty string entries assert no fix.
	WantFixes []string
}

// RunRuleTests runs a table of test cases against a rule.
func RunRuleTests(t *testing.T, rule rules.Rule, cases []RuleTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			path := tc.Path
			if path == "" {
				path = "test.f90"
			}
			settings := rules.DefaultSettings()
			if tc.Settings != nil {
				settings = *tc.Settings
			}
			input := MakeCheckInputWithSettings(t, path, tc.Source, settings)
			diags := CheckRule(t, rule, input)

			if tc.WantDiagnostics >= 0 && len(diags) != tc.WantDiagnostics {
				t.Errorf("got %d diagnostics, want %d", len(diags), tc.WantDiagnostics)
				for i, d := range diags {
					t.Logf("  [%d] %s: %s", i, d.Code, d.Message)
				}
			}

			for i, msg := range tc.WantMessages {
				if i >= len(diags) {
					t.Errorf("expected diagnostic[%d] with message containing %q, but only got %d diagnostics",
						i, msg, len(diags))
					continue
				}
				if !strings.Contains(diags[i].Message, msg) {
					t.Errorf("diagnostic[%d].Message = %q, want substring %q", i, diags[i].Message, msg)
				}
			}

			for i, want := range tc.WantFixes {
				if i >= len(diags) {
					t.Errorf("expected diagnostic[%d] with a fix, but only got %d diagnostics", i, len(diags))
					continue
				}
				d := diags[i]
				if want == "" {
					if d.HasFix() {
						t.Errorf("diagnostic[%d] has an unexpected fix", i)
					}
					continue
				}
				if !d.HasFix() || len(d.Fix.Edits) == 0 {
					t.Errorf("diagnostic[%d] has no fix, want replacement %q", i, want)
					continue
				}
				if got := d.Fix.Edits[0].Replacement; got != want {
					t.Errorf("diagnostic[%d] fix replacement = %q, want %q", i, got, want)
				}
			}
		})
	}
}

// AssertNoDiagnostics fails the test if there are any diagnostics.
func AssertNoDiagnostics(tb testing.TB, diags []rules.Diagnostic) {
	tb.Helper()
	if len(diags) > 0 {
		tb.Errorf("expected no diagnostics, got %d:", len(diags))
		for _, d := range diags {
			tb.Logf("  - %s at %d..%d: %s", d.Code, d.Range.Start, d.Range.End, d.Message)
		}
	}
}

// AssertDiagnosticCount fails if the diagnostic count doesn't match.
func AssertDiagnosticCount(tb testing.TB, diags []rules.Diagnostic, want int) {
	tb.Helper()
	if len(diags) != want {
		tb.Errorf("got %d diagnostics, want %d", len(diags), want)
		for _, d := range diags {
			tb.Logf("  - %s at %d..%d: %s", d.Code, d.Range.Start, d.Range.End, d.Message)
		}
	}
}
