// Package errorrules implements the error (E) rules. These are the
// engine's own findings: parse failures and problems with suppression
// comments.
package errorrules

import (
	"github.com/fortlab/flint/internal/rules"
	"github.com/fortlab/flint/internal/syntax"
)

// SyntaxError implements E001: regions the parser could not understand.
type SyntaxError struct{}

// Metadata returns the rule metadata.
func (r *SyntaxError) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "E001",
		Name:    "syntax-error",
		Summary: "source could not be parsed",
		Explanation: "The parser could not make sense of this region: an unterminated " +
			"block or string, a stray 'end', or a line that cannot start a statement. " +
			"Other rules still run on the parts of the file that did parse, but no " +
			"fixes are applied while syntax errors are present.",
		Fix:            rules.FixNone,
		DefaultEnabled: true,
	}
}

// Entrypoints returns the node kinds this rule visits.
func (r *SyntaxError) Entrypoints() []string {
	return []string{"ERROR"}
}

// CheckNode reports an error node.
func (r *SyntaxError) CheckNode(_ *rules.CheckInput, node *syntax.Node) []rules.Diagnostic {
	return []rules.Diagnostic{rules.FromNode("E001", node, "syntax error")}
}

// InvalidRuleCode implements E011: an allow comment naming something that
// is not a rule code, category prefix, or category name. The diagnostics
// are produced by the suppression resolver while parsing allow comments;
// this type only carries the descriptor.
type InvalidRuleCode struct{}

// Metadata returns the rule metadata.
func (r *InvalidRuleCode) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "E011",
		Name:    "invalid-rule-code",
		Summary: "allow comment names an unknown rule",
		Explanation: "An '! allow(...)' comment referenced a token that is not a known " +
			"rule code, category prefix, or category name. The annotation suppresses " +
			"nothing until the token is corrected.",
		Fix:            rules.FixNone,
		DefaultEnabled: true,
	}
}

// CheckPath is a no-op; see the type comment.
func (r *InvalidRuleCode) CheckPath(*rules.CheckInput) []rules.Diagnostic {
	return nil
}

// UnusedAllowComment implements E012: an allow comment that suppressed
// nothing. Like E011, the diagnostics come from the suppression resolver.
type UnusedAllowComment struct{}

// Metadata returns the rule metadata.
func (r *UnusedAllowComment) Metadata() rules.Metadata {
	return rules.Metadata{
		Code:    "E012",
		Name:    "unused-allow-comment",
		Summary: "allow comment suppresses nothing",
		Explanation: "An '! allow(...)' comment matched no diagnostic in its scope. " +
			"Stale annotations hide real findings when the code they guarded moves " +
			"or is deleted; remove them once they stop suppressing anything.",
		Fix:            rules.FixNone,
		DefaultEnabled: true,
	}
}

// CheckPath is a no-op; see the type comment.
func (r *UnusedAllowComment) CheckPath(*rules.CheckInput) []rules.Diagnostic {
	return nil
}

func init() {
	rules.Register(&SyntaxError{})
	rules.Register(&InvalidRuleCode{})
	rules.Register(&UnusedAllowComment{})
}
