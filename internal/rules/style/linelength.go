// Package style implements the style (S) rules: line length, file
// extensions, and whitespace hygiene.
package style

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// LineTooLong implements S001: lines longer than the configured limit.
type LineTooLong struct{}

// Metadata returns the rule metadata.
func (r *LineTooLong) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "S001",
		Name:    "line-too-long",
		Summary: "line exceeds the maximum allowed length",
		Explanation: "Long lines are more difficult to read and may not fit on some " +
			"developers' terminals. The line continuation character '&' may be used to " +
			"split a long line across multiple lines.\n\n" +
			"Lines consisting of a single word, lines ending in a URL that starts " +
			"before the limit, and SPDX license headers are exempt: none of them can " +
			"be wrapped without losing meaning.\n\n" +
			"The limit is set with `check.line-length` (default 100).",
		Fix:            rules.FixNone,
		DefaultEnabled: true,
	}
}

// CheckText checks every line of the file against the configured limit.
func (r *LineTooLong) CheckText(input *rules.CheckInput) []rules.Diagnostic {
	limit := input.Settings.LineLength
	var diags []rules.Diagnostic

	for i := range input.Map.LineCount() {
		line := input.Map.Line(i)
		if len(line) <= limit {
			// Byte length bounds rune length from above.
			continue
		}
		width := utf8.RuneCountInString(line)
		if width <= limit {
			continue
		}

		chunks := strings.Fields(line)
		if len(chunks) < 2 {
			// A single unbroken word cannot be made shorter.
			continue
		}

		// Lines ending in a URL are exempt as long as the URL starts
		// before the limit.
		last := chunks[len(chunks)-1]
		if strings.Contains(last, "://") && width-utf8.RuneCountInString(last) <= limit {
			continue
		}

		// SPDX headers are machine-readable and must not wrap.
		if chunks[0] == "!" &&
			(chunks[1] == "SPDX-License-Identifier:" || chunks[1] == "SPDX-FileCopyrightText:") {
			continue
		}

		// Report from the first rune past the limit to the end of the line.
		tail := line
		for range limit {
			_, size := utf8.DecodeRuneInString(tail)
			tail = tail[size:]
		}
		lineStart := input.Map.LineOffset(i)
		rng := syntax.Range{
			Start: lineStart + len(line) - len(tail),
			End:   lineStart + len(line),
		}
		diags = append(diags, rules.NewDiagnostic("S001", rng,
			fmt.Sprintf("line length of %d, exceeds maximum %d", width, limit)))
	}
	return diags
}

func init() {
	rules.Register(&LineTooLong{})
}
