package style

import (
	"bytes"
	"strings"

	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// TrailingWhitespace implements S101: whitespace at the end of a line.
type TrailingWhitespace struct{}

// Metadata returns the rule metadata.
func (r *TrailingWhitespace) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "S101",
		Name:    "trailing-whitespace",
		Summary: "line has trailing whitespace",
		Explanation: "Trailing whitespace is difficult to spot, and as some editors " +
			"remove it automatically while others leave it, it causes unwanted diff " +
			"noise in shared projects.",
		Fix:            rules.FixAlways,
		DefaultEnabled: true,
	}
}

// CheckText reports trailing spaces and tabs on every line.
func (r *TrailingWhitespace) CheckText(input *rules.CheckInput) []rules.Diagnostic {
	var diags []rules.Diagnostic
	for i := range input.Map.LineCount() {
		line := input.Map.Line(i)
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) == len(line) {
			continue
		}
		lineStart := input.Map.LineOffset(i)
		rng := syntax.Range{Start: lineStart + len(trimmed), End: lineStart + len(line)}
		diags = append(diags, rules.NewDiagnostic("S101", rng, "trailing whitespace").
			WithFix(rules.SafeFix(rules.Deletion(rng))))
	}
	return diags
}

// MissingNewlineAtEndOfFile implements S102: files whose last line has no
// terminating newline.
type MissingNewlineAtEndOfFile struct{}

// Metadata returns the rule metadata.
func (r *MissingNewlineAtEndOfFile) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "S102",
		Name:    "missing-newline-at-end-of-file",
		Summary: "file does not end with a newline",
		Explanation: "POSIX defines a line as a sequence of characters ending with a " +
			"newline. Tools that take that definition literally can mishandle the last " +
			"line of a file without one, producing odd diffs and broken concatenation.",
		Fix:            rules.FixAlways,
		DefaultEnabled: true,
	}
}

// CheckText reports a missing final newline with an insertion fix.
func (r *MissingNewlineAtEndOfFile) CheckText(input *rules.CheckInput) []rules.Diagnostic {
	src := input.Source
	if len(src) == 0 || src[len(src)-1] == '\n' {
		return nil
	}
	newline := "\n"
	if bytes.Contains(src, []byte("\r\n")) {
		newline = "\r\n"
	}
	rng := syntax.Range{Start: len(src), End: len(src)}
	return []rules.Diagnostic{
		rules.NewDiagnostic("S102", rng, "missing newline at end of file").
			WithFix(rules.SafeFix(rules.Insertion(len(src), newline))),
	}
}

// IncorrectSpaceBeforeComment implements S103: inline comments not
// preceded by at least two spaces.
type IncorrectSpaceBeforeComment struct{}

// Metadata returns the rule metadata.
func (r *IncorrectSpaceBeforeComment) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "S103",
		Name:    "incorrect-space-before-comment",
		Summary: "inline comment needs at least two spaces before it",
		Explanation: "Inline comments that are not separated from code by whitespace " +
			"are hard to read. Following the style guides of several other languages, " +
			"two spaces are expected before an inline comment.",
		Fix:            rules.FixAlways,
		DefaultEnabled: true,
	}
}

// Entrypoints returns the node kinds this rule visits.
func (r *IncorrectSpaceBeforeComment) Entrypoints() []string {
	return []string{"comment"}
}

// CheckNode checks the spacing between code and a trailing comment.
func (r *IncorrectSpaceBeforeComment) CheckNode(input *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	start := node.StartByte()
	lineStart := input.Map.LineOffset(input.Map.LineIndexFor(start))
	before := string(input.Source[lineStart:start])

	trimmed := strings.TrimRight(before, " \t")
	if trimmed == "" {
		// Own-line comment: indentation is not inline spacing.
		return nil
	}
	if ws := len(before) - len(trimmed); ws < 2 {
		return []rules.Diagnostic{
			rules.FromNode("S103", node, "need at least 2 spaces before inline comment").
				WithFix(rules.SafeFix(rules.Insertion(start, "  "[ws:]))),
		}
	}
	return nil
}

func init() {
	rules.Register(&TrailingWhitespace{})
	rules.Register(&MissingNewlineAtEndOfFile{})
	rules.Register(&IncorrectSpaceBeforeComment{})
}
