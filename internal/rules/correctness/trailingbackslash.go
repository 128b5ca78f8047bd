// Package correctness implements the correctness (C) rules.
package correctness

import (
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// TrailingBackslash implements C001: a backslash at the end of a line.
type TrailingBackslash struct{}

// Metadata returns the rule metadata.
func (r *TrailingBackslash) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "C001",
		Name:    "trailing-backslash",
		Summary: "line ends with a backslash",
		Explanation: "When the source is run through the C preprocessor, a trailing " +
			"backslash continues the line, splicing the following line onto it. A " +
			"backslash at the end of a comment therefore swallows the next statement, " +
			"which silently compiles it out.",
		Fix:            rules.FixNone,
		DefaultEnabled: true,
	}
}

// CheckText reports backslashes at the end of lines. Trailing whitespace
// after the backslash is ignored, as the preprocessor may ignore it too.
func (r *TrailingBackslash) CheckText(input *rules.CheckInput) []rules.Diagnostic {
	var diags []rules.Diagnostic
	for i := range input.Map.LineCount() {
		line := input.Map.Line(i)
		trimmed := strings.TrimRight(line, " \t")
		if !strings.HasSuffix(trimmed, `\`) {
			continue
		}
		at := input.Map.LineOffset(i) + len(trimmed) - 1
		diags = append(diags, rules.NewDiagnostic("C001",
			syntax.Range{Start: at, End: at + 1}, "trailing backslash"))
	}
	return diags
}

func init() {
	rules.Register(&TrailingBackslash{})
}
